package host

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/viewcap/viewcap-agent/internal/capture"
)

// BridgeError represents a non-2xx response from the host bridge.
type BridgeError struct {
	StatusCode int
	Body       string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("host bridge: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx) and false for client
// errors (4xx), which are considered permanent.
func (e *BridgeError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// HTTPClient is the real bridge client. Capture calls block until the host
// finishes recording, so the HTTP timeout is generous.
type HTTPClient struct {
	baseURL    string
	token      string
	agentID    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *HTTPClient) SetAgentID(id string) {
	c.agentID = id
}

type camerasPayload struct {
	Cameras []string `json:"cameras"`
}

type scenePayload struct {
	ShortName  string  `json:"short_name"`
	FrameStart float64 `json:"frame_start"`
	FrameEnd   float64 `json:"frame_end"`
	FrameRate  float64 `json:"frame_rate"`
}

type selectionPayload struct {
	Nodes []string `json:"nodes"`
}

type viewPayload struct {
	Camera string `json:"camera"`
}

type capturePayload struct {
	Filename string          `json:"filename"`
	Options  capture.Options `json:"options"`
}

func (c *HTTPClient) ListCaptureSources(ctx context.Context) ([]string, error) {
	var out camerasPayload
	if err := c.do(ctx, http.MethodGet, "/api/cameras", nil, &out); err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	return out.Cameras, nil
}

func (c *HTTPClient) CurrentSceneShortName(ctx context.Context) (string, error) {
	out, err := c.sceneInfo(ctx)
	if err != nil {
		return "", err
	}
	return out.ShortName, nil
}

func (c *HTTPClient) FrameRange(ctx context.Context) (float64, float64, error) {
	out, err := c.sceneInfo(ctx)
	if err != nil {
		return 0, 0, err
	}
	return out.FrameStart, out.FrameEnd, nil
}

func (c *HTTPClient) FrameRate(ctx context.Context) (float64, error) {
	out, err := c.sceneInfo(ctx)
	if err != nil {
		return 0, err
	}
	return out.FrameRate, nil
}

func (c *HTTPClient) sceneInfo(ctx context.Context) (*scenePayload, error) {
	var out scenePayload
	if err := c.do(ctx, http.MethodGet, "/api/scene", nil, &out); err != nil {
		return nil, fmt.Errorf("query scene: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) GetSelection(ctx context.Context) ([]string, error) {
	var out selectionPayload
	if err := c.do(ctx, http.MethodGet, "/api/selection", nil, &out); err != nil {
		return nil, fmt.Errorf("get selection: %w", err)
	}
	return out.Nodes, nil
}

func (c *HTTPClient) SetSelection(ctx context.Context, nodes []string) error {
	if err := c.do(ctx, http.MethodPut, "/api/selection", selectionPayload{Nodes: nodes}, nil); err != nil {
		return fmt.Errorf("set selection: %w", err)
	}
	return nil
}

func (c *HTTPClient) ClearSelection(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/selection", nil, nil); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return nil
}

func (c *HTTPClient) SwitchActiveView(ctx context.Context, camera string) error {
	if err := c.do(ctx, http.MethodPost, "/api/view", viewPayload{Camera: camera}, nil); err != nil {
		return fmt.Errorf("switch view: %w", err)
	}
	return nil
}

func (c *HTTPClient) Capture(ctx context.Context, outputPath string, opts capture.Options) error {
	// The host expects forward slashes regardless of platform.
	payload := capturePayload{
		Filename: filepath.ToSlash(outputPath),
		Options:  opts,
	}

	c.logger.Info("requesting capture", "output", payload.Filename)

	start := time.Now()
	if err := c.do(ctx, http.MethodPost, "/api/capture", payload, nil); err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	c.logger.Info("capture finished", "output", payload.Filename, "duration", time.Since(start))
	return nil
}

func (c *HTTPClient) Probe(ctx context.Context) (*Info, error) {
	var info Info
	if err := c.do(ctx, http.MethodGet, "/api/ping", nil, &info); err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	info.ProbedAt = time.Now()
	return &info, nil
}

// do performs one bridge call: JSON in, JSON out, BridgeError on non-2xx.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Viewcap-Request-Id", generateRequestID())
	if c.agentID != "" {
		req.Header.Set("X-Viewcap-Agent-Id", c.agentID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BridgeError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func generateRequestID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
