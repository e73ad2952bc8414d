package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/viewcap/viewcap-agent/internal/playblast"
	"github.com/viewcap/viewcap-agent/internal/scene"
)

type BatchService interface {
	RequestBatch(ctx context.Context, rootPath string, cameras []string) (*Batch, error)
	GetBatch(ctx context.Context, id string) (*Batch, error)
	GetBatches(ctx context.Context, limit int) ([]*Batch, error)
	GetClips(ctx context.Context, batchID string) ([]*Clip, error)
	GetClip(ctx context.Context, id string) (*Clip, error)
	CountClips(ctx context.Context) (int, error)
	ExecuteBatch(ctx context.Context, batch *Batch) error
}

type Service struct {
	repo   Repository
	orch   *playblast.Orchestrator
	scene  scene.Query
	logger *slog.Logger
}

func NewService(repo Repository, orch *playblast.Orchestrator, q scene.Query, logger *slog.Logger) *Service {
	return &Service{repo: repo, orch: orch, scene: q, logger: logger}
}

// RequestBatch enqueues a playblast batch. The camera list is taken as
// authoritative; it is not re-derived from the host's live selection.
// Precondition failures (bad root, unsaved scene, empty selection) surface
// when the batch executes, matching a direct orchestrator run.
func (s *Service) RequestBatch(ctx context.Context, rootPath string, cameras []string) (*Batch, error) {
	if rootPath == "" {
		return nil, fmt.Errorf("root path is required")
	}

	now := time.Now()
	batch := &Batch{
		ID:        NewID(),
		Status:    BatchStatusPending,
		RootPath:  rootPath,
		Cameras:   append([]string{}, cameras...),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Snapshot the playback range for later editorial export. Best effort:
	// a batch is still valid when the host can't report it.
	if start, end, err := s.scene.FrameRange(ctx); err == nil {
		batch.FrameStart = start
		batch.FrameEnd = end
	} else if s.logger != nil {
		s.logger.Warn("frame range query failed", "error", err)
	}
	if rate, err := s.scene.FrameRate(ctx); err == nil {
		batch.FrameRate = rate
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("batch requested", "batch_id", batch.ID, "cameras", len(cameras))
	}
	return batch, nil
}

func (s *Service) GetBatch(ctx context.Context, id string) (*Batch, error) {
	return s.repo.GetBatch(ctx, id)
}

func (s *Service) GetBatches(ctx context.Context, limit int) ([]*Batch, error) {
	return s.repo.ListBatches(ctx, limit)
}

func (s *Service) GetClips(ctx context.Context, batchID string) ([]*Clip, error) {
	return s.repo.ListClipsByBatch(ctx, batchID)
}

func (s *Service) GetClip(ctx context.Context, id string) (*Clip, error) {
	return s.repo.GetClip(ctx, id)
}

func (s *Service) CountClips(ctx context.Context) (int, error) {
	return s.repo.CountClips(ctx)
}

// ExecuteBatch runs one batch through the orchestrator and records the
// outcome. Fatal precondition errors fail the whole batch; per-camera
// failures are stored on their clips and the batch completes.
func (s *Service) ExecuteBatch(ctx context.Context, batch *Batch) error {
	s.repo.UpdateBatchStatus(ctx, batch.ID, BatchStatusRunning, "")
	if s.logger != nil {
		s.logger.Info("batch started", "batch_id", batch.ID, "root", batch.RootPath)
	}

	result, err := s.orch.Run(ctx, batch.RootPath, batch.Cameras)
	if err != nil {
		s.repo.UpdateBatchStatus(ctx, batch.ID, BatchStatusFailed, batchErrorMessage(err))
		return err
	}

	if err := s.repo.UpdateBatchOutput(ctx, batch.ID, result.Shot, result.OutputDir); err != nil {
		return err
	}

	for i, res := range result.Results {
		clip := &Clip{
			ID:          NewID(),
			BatchID:     batch.ID,
			Position:    i,
			Camera:      res.Camera,
			DisplayName: res.DisplayName,
			Path:        res.Path,
			OK:          res.OK,
			Error:       res.Error,
			Present:     res.OK,
			CreatedAt:   time.Now(),
		}
		if err := s.repo.CreateClip(ctx, clip); err != nil {
			if s.logger != nil {
				s.logger.Error("failed to record clip", "batch_id", batch.ID, "camera", res.Camera, "error", err)
			}
		}
	}

	if err := s.repo.UpdateBatchCounts(ctx, batch.ID, result.Succeeded, result.Failed); err != nil {
		return err
	}
	s.repo.UpdateBatchStatus(ctx, batch.ID, BatchStatusCompleted, "")

	if s.logger != nil {
		s.logger.Info("batch completed",
			"batch_id", batch.ID,
			"shot", result.Shot,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
		)
	}
	return nil
}

// batchErrorMessage keeps the stored message stable for the known
// precondition failures so the UI can present them verbatim.
func batchErrorMessage(err error) string {
	switch {
	case errors.Is(err, playblast.ErrInvalidRoot):
		return "output root does not exist; choose an existing directory"
	case errors.Is(err, playblast.ErrNoSceneName):
		return "scene has no saved name; save the scene and retry"
	case errors.Is(err, playblast.ErrNoSelection):
		return "no cameras selected for the playblast"
	default:
		return err.Error()
	}
}
