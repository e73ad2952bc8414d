package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Runner drains pending batches one at a time. Captures hijack the host's
// active viewport, so there is never more than one batch in flight.
type Runner struct {
	service      BatchService
	repo         Repository
	logger       *slog.Logger
	pollInterval time.Duration
	running      atomic.Bool
	paused       atomic.Bool

	// OnBatchCompleted fires after a batch reaches a terminal status.
	// The agent uses it to start watching the batch's output directory.
	OnBatchCompleted func(batch *Batch)
}

func NewRunner(service BatchService, repo Repository, logger *slog.Logger) *Runner {
	return &Runner{
		service:      service,
		repo:         repo,
		logger:       logger,
		pollInterval: 2 * time.Second,
	}
}

func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		return
	}

	r.logger.Info("batch runner started")

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("batch runner stopping")
			r.running.Store(false)
			return
		case <-ticker.C:
			if !r.paused.Load() {
				r.processNextBatch(ctx)
			}
		}
	}
}

func (r *Runner) Pause() {
	r.paused.Store(true)
	r.logger.Info("batch runner paused")
}

func (r *Runner) Resume() {
	r.paused.Store(false)
	r.logger.Info("batch runner resumed")
}

func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

func (r *Runner) processNextBatch(ctx context.Context) {
	batches, err := r.repo.ListPendingBatches(ctx)
	if err != nil {
		r.logger.Error("failed to list pending batches", "error", err)
		return
	}

	if len(batches) == 0 {
		return
	}

	batch := batches[0]
	r.logger.Info("processing batch", "batch_id", batch.ID, "cameras", len(batch.Cameras))

	if err := r.service.ExecuteBatch(ctx, batch); err != nil {
		r.logger.Error("batch failed", "batch_id", batch.ID, "error", err)
	}

	if r.OnBatchCompleted != nil {
		if done, err := r.repo.GetBatch(ctx, batch.ID); err == nil && done != nil {
			r.OnBatchCompleted(done)
		}
	}
}

func (r *Runner) GetActiveBatchCount(ctx context.Context) int {
	batches, err := r.repo.ListBatches(ctx, 100)
	if err != nil {
		return 0
	}
	count := 0
	for _, b := range batches {
		if b.Status == BatchStatusRunning {
			count++
		}
	}
	return count
}
