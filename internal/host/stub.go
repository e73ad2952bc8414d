package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/viewcap/viewcap-agent/internal/capture"
)

// StubClient is an in-memory host used when no bridge is reachable
// (development, demos, tests). Captures write placeholder files so the
// rest of the agent behaves as it would against a real host.
type StubClient struct {
	logger *slog.Logger

	mu        sync.Mutex
	cameras   []string
	sceneName string
	selection []string
	active    string
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{
		logger: logger,
		cameras: []string{
			"perspShape",
			"topShape",
			"frontShape",
			"sideShape",
			"renderCamShape",
			"seq:shotCamShape",
		},
		sceneName: "demo_scene.mb",
	}
}

// SetScene replaces the stub's cameras and scene name.
func (c *StubClient) SetScene(sceneName string, cameras []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sceneName = sceneName
	c.cameras = append([]string{}, cameras...)
}

func (c *StubClient) ListCaptureSources(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.cameras...), nil
}

func (c *StubClient) CurrentSceneShortName(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sceneName, nil
}

func (c *StubClient) GetSelection(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.selection...), nil
}

func (c *StubClient) SetSelection(ctx context.Context, nodes []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = append([]string{}, nodes...)
	return nil
}

func (c *StubClient) ClearSelection(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = nil
	return nil
}

func (c *StubClient) FrameRange(ctx context.Context) (float64, float64, error) {
	return 1, 120, nil
}

func (c *StubClient) FrameRate(ctx context.Context) (float64, error) {
	return 24, nil
}

func (c *StubClient) SwitchActiveView(ctx context.Context, camera string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = camera
	c.logger.Info("host stub: view switched", "camera", camera)
	return nil
}

func (c *StubClient) Capture(ctx context.Context, outputPath string, opts capture.Options) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("host stub: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte("viewcap stub clip\n"), 0o644); err != nil {
		return fmt.Errorf("host stub: %w", err)
	}
	c.logger.Info("host stub: capture written", "output", outputPath,
		"width", opts.Width, "height", opts.Height)
	return nil
}

func (c *StubClient) Probe(ctx context.Context) (*Info, error) {
	return &Info{
		HostName:      "stub",
		HostVersion:   "0.0.0",
		BridgeVersion: "stub",
		SceneLoaded:   true,
		ProbedAt:      time.Now(),
	}, nil
}
