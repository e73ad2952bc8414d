// Package watcher tracks captured clip files on disk and keeps the
// catalog's presence flags in sync when renders are moved or deleted.
package watcher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/viewcap/viewcap-agent/internal/catalog"
)

type Watcher struct {
	fs     *fsnotify.Watcher
	repo   catalog.Repository
	logger *slog.Logger

	mu   sync.Mutex
	dirs map[string]struct{}
}

func New(repo catalog.Repository, logger *slog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:     fs,
		repo:   repo,
		logger: logger,
		dirs:   make(map[string]struct{}),
	}, nil
}

// Add starts watching a batch output directory. Adding the same directory
// twice is a no-op.
func (w *Watcher) Add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = struct{}{}
	w.logger.Info("watching output directory", "dir", dir)
	return nil
}

// Run consumes filesystem events until the context is canceled or the
// underlying watcher closes.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	clip, err := w.repo.GetClipByPath(ctx, event.Name)
	if err != nil {
		w.logger.Error("clip lookup failed", "path", event.Name, "error", err)
		return
	}
	if clip == nil {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		if err := w.repo.UpdateClipPresent(ctx, clip.ID, false); err != nil {
			w.logger.Error("failed to mark clip absent", "clip_id", clip.ID, "error", err)
			return
		}
		w.logger.Info("clip file gone", "clip_id", clip.ID, "path", event.Name)

	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		if clip.Present {
			return
		}
		if err := w.repo.UpdateClipPresent(ctx, clip.ID, true); err != nil {
			w.logger.Error("failed to mark clip present", "clip_id", clip.ID, "error", err)
			return
		}
		w.logger.Info("clip file restored", "clip_id", clip.ID, "path", event.Name)
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
