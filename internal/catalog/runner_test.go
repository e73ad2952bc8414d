package catalog

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRunner_ProcessesPendingBatch(t *testing.T) {
	fs := &fakeScene{sceneName: "shot010.mb", start: 1, end: 24, rate: 24}
	fc := &captureFake{}
	svc, repo, root := setupServiceTest(t, fs, fc)

	batch, err := svc.RequestBatch(context.Background(), root, []string{"camA"})
	if err != nil {
		t.Fatalf("RequestBatch() error = %v", err)
	}

	runner := NewRunner(svc, repo, testLogger())
	runner.processNextBatch(context.Background())

	stored, _ := repo.GetBatch(context.Background(), batch.ID)
	if stored.Status != BatchStatusCompleted {
		t.Errorf("status = %s, want completed", stored.Status)
	}
}

func TestRunner_OldestBatchFirst(t *testing.T) {
	fs := &fakeScene{sceneName: "shot010.mb"}
	fc := &captureFake{}
	svc, repo, root := setupServiceTest(t, fs, fc)

	first, _ := svc.RequestBatch(context.Background(), root, []string{"camA"})

	// Force a distinct created_at so ordering is deterministic.
	time.Sleep(1100 * time.Millisecond)
	second, _ := svc.RequestBatch(context.Background(), root, []string{"camB"})

	runner := NewRunner(svc, repo, testLogger())
	runner.processNextBatch(context.Background())

	b1, _ := repo.GetBatch(context.Background(), first.ID)
	b2, _ := repo.GetBatch(context.Background(), second.ID)
	if b1.Status != BatchStatusCompleted {
		t.Errorf("first batch status = %s, want completed", b1.Status)
	}
	if b2.Status != BatchStatusPending {
		t.Errorf("second batch status = %s, want still pending", b2.Status)
	}
}

func TestRunner_CompletionHook(t *testing.T) {
	fs := &fakeScene{sceneName: "shot010.mb"}
	fc := &captureFake{}
	svc, repo, root := setupServiceTest(t, fs, fc)

	svc.RequestBatch(context.Background(), root, []string{"camA"})

	var hooked *Batch
	runner := NewRunner(svc, repo, testLogger())
	runner.OnBatchCompleted = func(b *Batch) { hooked = b }
	runner.processNextBatch(context.Background())

	if hooked == nil {
		t.Fatal("completion hook not called")
	}
	if hooked.Status != BatchStatusCompleted {
		t.Errorf("hooked batch status = %s, want completed", hooked.Status)
	}
	if hooked.OutputDir == "" {
		t.Error("hooked batch has no output dir")
	}
}

func TestRunner_HookFiresOnFailure(t *testing.T) {
	fs := &fakeScene{sceneName: ""}
	fc := &captureFake{}
	svc, repo, root := setupServiceTest(t, fs, fc)

	svc.RequestBatch(context.Background(), root, []string{"camA"})

	var hooked *Batch
	runner := NewRunner(svc, repo, testLogger())
	runner.OnBatchCompleted = func(b *Batch) { hooked = b }
	runner.processNextBatch(context.Background())

	if hooked == nil {
		t.Fatal("completion hook not called for failed batch")
	}
	if hooked.Status != BatchStatusFailed {
		t.Errorf("hooked batch status = %s, want failed", hooked.Status)
	}
}

func TestRunner_PauseSkipsProcessing(t *testing.T) {
	fs := &fakeScene{sceneName: "shot010.mb"}
	fc := &captureFake{}
	svc, repo, root := setupServiceTest(t, fs, fc)

	batch, _ := svc.RequestBatch(context.Background(), root, []string{"camA"})

	runner := NewRunner(svc, repo, testLogger())
	runner.Pause()
	if !runner.IsPaused() {
		t.Fatal("runner not paused after Pause()")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	runner.pollInterval = 10 * time.Millisecond
	runner.Start(ctx)

	stored, _ := repo.GetBatch(context.Background(), batch.ID)
	if stored.Status != BatchStatusPending {
		t.Errorf("status = %s, want pending while paused", stored.Status)
	}

	runner.Resume()
	if runner.IsPaused() {
		t.Error("runner still paused after Resume()")
	}
}

func TestRunner_StartStopsOnContextCancel(t *testing.T) {
	fs := &fakeScene{sceneName: "shot010.mb"}
	svc, repo, _ := setupServiceTest(t, fs, &captureFake{})

	runner := NewRunner(svc, repo, testLogger())
	runner.pollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	if !runner.IsRunning() {
		t.Error("runner not running after Start()")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after context cancel")
	}
	if runner.IsRunning() {
		t.Error("runner still marked running after stop")
	}
}
