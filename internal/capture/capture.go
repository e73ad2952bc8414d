// Package capture defines the viewport capture contract the agent drives.
// The host bridge client and the in-memory stub implement Service; the
// orchestrator only ever sees this interface.
package capture

import "context"

// Extension is the container extension of produced clips.
const Extension = "mov"

// Service performs viewport captures in the host application. The capture
// mechanism is view-based: the active view is switched to the wanted camera
// first, then the recording runs against whatever the view shows. Captures
// block until the host finishes or fails; the viewport is a single global
// resource, so calls must not overlap.
type Service interface {
	// SwitchActiveView points the host's active view at the given camera.
	// The identifier is the full transform name, namespace included.
	SwitchActiveView(ctx context.Context, camera string) error

	// Capture records the active view to outputPath.
	Capture(ctx context.Context, outputPath string, opts Options) error
}

// Options are the capture parameters sent to the host. The agent always
// captures with the same fixed policy; per-call variation is deliberately
// not offered.
type Options struct {
	Format         string `json:"format"`
	Compression    string `json:"compression"`
	Quality        int    `json:"quality"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Percent        int    `json:"percent"`
	FramePadding   int    `json:"frame_padding"`
	ForceOverwrite bool   `json:"force_overwrite"`
	SequenceTime   bool   `json:"sequence_time"`
	ClearCache     bool   `json:"clear_cache"`
	Viewer         bool   `json:"viewer"`
	ShowOrnaments  bool   `json:"show_ornaments"`
}

// DefaultOptions returns the fixed capture policy: full-HD H.264 in a qt
// container at maximum quality, overwriting existing files, no on-screen
// viewer, ornaments on, render cache cleared, full playback range.
func DefaultOptions() Options {
	return Options{
		Format:         "qt",
		Compression:    "H.264",
		Quality:        100,
		Width:          1920,
		Height:         1080,
		Percent:        100,
		FramePadding:   4,
		ForceOverwrite: true,
		SequenceTime:   false,
		ClearCache:     true,
		Viewer:         false,
		ShowOrnaments:  true,
	}
}
