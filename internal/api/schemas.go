package api

import (
	"time"

	"github.com/viewcap/viewcap-agent/internal/catalog"
	"github.com/viewcap/viewcap-agent/internal/config"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
	AgentID string `json:"agent_id"`
}

type StatusResponse struct {
	State          string              `json:"state"`
	LastError      string              `json:"last_error,omitempty"`
	BatchesRunning int                 `json:"batches_running"`
	ClipsCount     int                 `json:"clips_count"`
	ActiveBatch    *BatchResponse      `json:"active_batch,omitempty"`
	Host           *HostStatusResponse `json:"host,omitempty"`
}

type HostStatusResponse struct {
	HostName      string `json:"host_name"`
	HostVersion   string `json:"host_version"`
	BridgeVersion string `json:"bridge_version"`
	SceneLoaded   bool   `json:"scene_loaded"`
	LastProbeAt   string `json:"last_probe_at,omitempty"`
}

type CameraResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type CamerasResponse struct {
	Cameras []CameraResponse `json:"cameras"`
}

type SelectionRequest struct {
	Cameras []string `json:"cameras"`
}

type SelectionResponse struct {
	Cameras []string `json:"cameras"`
}

type PlayblastRequest struct {
	RootPath string   `json:"root_path"`
	Cameras  []string `json:"cameras"`
}

type PlayblastAcceptedResponse struct {
	BatchID string `json:"batch_id"`
}

type BatchResponse struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	RootPath   string   `json:"root_path"`
	Shot       string   `json:"shot,omitempty"`
	OutputDir  string   `json:"output_dir,omitempty"`
	Cameras    []string `json:"cameras"`
	Succeeded  int      `json:"succeeded"`
	Failed     int      `json:"failed"`
	FrameStart float64  `json:"frame_start"`
	FrameEnd   float64  `json:"frame_end"`
	FrameRate  float64  `json:"frame_rate"`
	Error      string   `json:"error,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

type BatchesResponse struct {
	Batches []BatchResponse `json:"batches"`
}

type BatchDetailResponse struct {
	BatchResponse
	Clips []ClipResponse `json:"clips"`
}

type ClipResponse struct {
	ID          string `json:"id"`
	BatchID     string `json:"batch_id"`
	Position    int    `json:"position"`
	Camera      string `json:"camera"`
	DisplayName string `json:"display_name"`
	Path        string `json:"path"`
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
	Present     bool   `json:"present"`
	CreatedAt   string `json:"created_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func BatchToResponse(b *catalog.Batch) BatchResponse {
	return BatchResponse{
		ID:         b.ID,
		Status:     b.Status,
		RootPath:   b.RootPath,
		Shot:       b.Shot,
		OutputDir:  b.OutputDir,
		Cameras:    b.Cameras,
		Succeeded:  b.Succeeded,
		Failed:     b.Failed,
		FrameStart: b.FrameStart,
		FrameEnd:   b.FrameEnd,
		FrameRate:  b.FrameRate,
		Error:      b.Error,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  b.UpdatedAt.Format(time.RFC3339),
	}
}

func ClipToResponse(c *catalog.Clip) ClipResponse {
	return ClipResponse{
		ID:          c.ID,
		BatchID:     c.BatchID,
		Position:    c.Position,
		Camera:      c.Camera,
		DisplayName: c.DisplayName,
		Path:        c.Path,
		OK:          c.OK,
		Error:       c.Error,
		Present:     c.Present,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

func versionString() string {
	if config.Version != "" {
		return config.Version
	}
	return "dev"
}
