// Package ui is the system tray surface: batch status at a glance plus
// pause/resume and quit controls.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
	"github.com/viewcap/viewcap-agent/internal/catalog"
)

type Tray struct {
	batchSvc catalog.BatchService
	runner   *catalog.Runner
	logger   *slog.Logger

	statusItem *systray.MenuItem
	clipsItem  *systray.MenuItem
	pauseItem  *systray.MenuItem

	mu sync.Mutex

	onOpenReview func() error
	onQuit       func()
}

type TrayConfig struct {
	BatchService catalog.BatchService
	Runner       *catalog.Runner
	Logger       *slog.Logger
	OnOpenReview func() error
	OnQuit       func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		batchSvc:     cfg.BatchService,
		runner:       cfg.Runner,
		logger:       cfg.Logger,
		onOpenReview: cfg.OnOpenReview,
		onQuit:       cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Viewcap")
	systray.SetTooltip("Viewcap Agent")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Current agent status")
	t.statusItem.Disable()

	t.clipsItem = systray.AddMenuItem("Clips: 0", "Captured clips in the catalog")
	t.clipsItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem("Pause", "Pause batch captures")

	reviewItem := systray.AddMenuItem("Open Review...", "Open the clip review page")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Viewcap Agent")

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.togglePause()
			case <-reviewItem.ClickedCh:
				t.handleOpenReview()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.refreshClipCount()
	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner == nil {
		return
	}

	if t.runner.IsPaused() {
		t.runner.Resume()
		t.pauseItem.SetTitle("Pause")
		t.statusItem.SetTitle("Status: Idle")
	} else {
		t.runner.Pause()
		t.pauseItem.SetTitle("Resume")
		t.statusItem.SetTitle("Status: Paused")
	}
}

func (t *Tray) handleOpenReview() {
	if t.onOpenReview != nil {
		if err := t.onOpenReview(); err != nil {
			t.logger.Error("failed to open review page", "error", err)
		}
	}
}

func (t *Tray) refreshClipCount() {
	if t.batchSvc == nil {
		return
	}
	count, err := t.batchSvc.CountClips(context.Background())
	if err != nil {
		return
	}
	t.UpdateClipCount(count)
}

func (t *Tray) UpdateStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.runner != nil && t.runner.IsPaused() {
		return
	}
	t.statusItem.SetTitle("Status: " + status)
}

func (t *Tray) UpdateClipCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clipsItem.SetTitle(fmt.Sprintf("Clips: %d", count))
}

func (t *Tray) Quit() {
	systray.Quit()
}
