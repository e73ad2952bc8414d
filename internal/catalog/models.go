// Package catalog persists playblast batches and the clips they produce,
// and runs pending batches against the orchestrator.
package catalog

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	BatchStatusPending   = "pending"
	BatchStatusRunning   = "running"
	BatchStatusCompleted = "completed"
	BatchStatusFailed    = "failed"
)

// Batch is one requested playblast run: the output root and camera list as
// submitted, plus the outcome once executed. The frame range and rate are
// snapshotted at request time so editorial export stays correct even if the
// scene changes afterwards.
type Batch struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	RootPath   string    `json:"root_path"`
	Shot       string    `json:"shot,omitempty"`
	OutputDir  string    `json:"output_dir,omitempty"`
	Cameras    []string  `json:"cameras"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	FrameStart float64   `json:"frame_start"`
	FrameEnd   float64   `json:"frame_end"`
	FrameRate  float64   `json:"frame_rate"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Clip is the per-camera outcome of a batch, in selection order. Present
// tracks whether the artifact still exists on disk.
type Clip struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id"`
	Position    int       `json:"position"`
	Camera      string    `json:"camera"`
	DisplayName string    `json:"display_name"`
	Path        string    `json:"path"`
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
	Present     bool      `json:"present"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
