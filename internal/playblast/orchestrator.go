// Package playblast orchestrates batch viewport captures: output root
// validation, shot directory derivation, and one capture per selected
// camera with per-camera failure accounting.
package playblast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/viewcap/viewcap-agent/internal/capture"
	"github.com/viewcap/viewcap-agent/internal/scene"
)

// Fatal precondition errors. Any of these halts the batch before a single
// capture is attempted; per-camera capture failures are never fatal.
var (
	ErrInvalidRoot = errors.New("output root does not exist or is not a directory")
	ErrNoSceneName = errors.New("scene has no saved name")
	ErrNoSelection = errors.New("no cameras selected")
)

// Result is the outcome of one camera's capture.
type Result struct {
	Camera      string `json:"camera"`
	DisplayName string `json:"display_name"`
	Path        string `json:"path"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
}

// BatchResult is the ordered outcome of a whole run: one Result per selected
// camera, in input order, plus the derived output location.
type BatchResult struct {
	Shot      string   `json:"shot"`
	OutputDir string   `json:"output_dir"`
	Results   []Result `json:"results"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
}

// Orchestrator runs capture batches against a scene query and a capture
// service. It holds no state between runs; the shot name is re-derived on
// every run so saving the scene under a new name moves the output.
type Orchestrator struct {
	scene   scene.Query
	capture capture.Service
	opts    capture.Options
	logger  *slog.Logger
}

func New(q scene.Query, svc capture.Service, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		scene:   q,
		capture: svc,
		opts:    capture.DefaultOptions(),
		logger:  logger,
	}
}

// ValidateOutputRoot normalizes a user-entered root path and verifies it is
// an existing directory. The root is never created on the user's behalf.
func ValidateOutputRoot(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidRoot
	}

	cleaned := filepath.Clean(path)
	info, err := os.Stat(cleaned)
	if err != nil || !info.IsDir() {
		return "", ErrInvalidRoot
	}

	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", ErrInvalidRoot
	}
	return abs, nil
}

// ResolveShotName queries the scene's saved short name and strips everything
// from the first dot on. Fails when the scene has never been saved.
func (o *Orchestrator) ResolveShotName(ctx context.Context) (string, error) {
	name, err := o.scene.CurrentSceneShortName(ctx)
	if err != nil {
		return "", fmt.Errorf("query scene name: %w", err)
	}

	shot, _, _ := strings.Cut(name, ".")
	if shot == "" {
		return "", ErrNoSceneName
	}
	return shot, nil
}

// EnsureOutputDir creates root/shot with any missing parents. Safe to call
// when the directory already exists.
func EnsureOutputDir(root, shot string) (string, error) {
	dir := filepath.Join(root, shot)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return filepath.Abs(dir)
}

// DisplayName strips the namespace prefix for use in the output filename.
// The capture call itself always uses the full identifier.
func DisplayName(camera string) string {
	return scene.ShortName(camera)
}

// Run executes one batch. The two scene preconditions and an empty selection
// short-circuit with a fatal error; from the first capture on, every camera
// gets exactly one Result and a failing camera never aborts the rest.
func (o *Orchestrator) Run(ctx context.Context, rootPath string, cameras []string) (*BatchResult, error) {
	root, err := ValidateOutputRoot(rootPath)
	if err != nil {
		return nil, err
	}

	shot, err := o.ResolveShotName(ctx)
	if err != nil {
		return nil, err
	}

	dir, err := EnsureOutputDir(root, shot)
	if err != nil {
		return nil, err
	}

	if len(cameras) == 0 {
		return nil, ErrNoSelection
	}

	batch := &BatchResult{
		Shot:      shot,
		OutputDir: dir,
		Results:   make([]Result, 0, len(cameras)),
	}

	if o.logger != nil {
		o.logger.Info("playblast batch started", "shot", shot, "output_dir", dir, "cameras", len(cameras))
	}

	for _, cam := range cameras {
		res := o.captureOne(ctx, dir, cam)
		if res.OK {
			batch.Succeeded++
		} else {
			batch.Failed++
			if o.logger != nil {
				o.logger.Warn("playblast failed", "camera", cam, "error", res.Error)
			}
		}
		batch.Results = append(batch.Results, res)
	}

	if o.logger != nil {
		o.logger.Info("playblast batch finished",
			"shot", shot,
			"succeeded", batch.Succeeded,
			"failed", batch.Failed,
		)
	}

	return batch, nil
}

func (o *Orchestrator) captureOne(ctx context.Context, dir, camera string) Result {
	display := DisplayName(camera)
	res := Result{
		Camera:      camera,
		DisplayName: display,
		Path:        filepath.Join(dir, display+"."+capture.Extension),
	}

	if err := o.capture.SwitchActiveView(ctx, camera); err != nil {
		res.Error = fmt.Sprintf("switch view to %s: %v", camera, err)
		return res
	}

	if err := o.capture.Capture(ctx, res.Path, o.opts); err != nil {
		res.Error = err.Error()
		return res
	}

	res.OK = true
	return res
}
