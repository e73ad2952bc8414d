// Package host talks to the bridge plugin running inside the 3D host
// application. The bridge exposes a small localhost HTTP API over the
// host's scene and viewport; this package implements the agent-side client
// plus an in-memory stub for headless development and tests.
package host

import (
	"context"
	"time"

	"github.com/viewcap/viewcap-agent/internal/capture"
	"github.com/viewcap/viewcap-agent/internal/scene"
)

// Client is the full surface the agent needs from the host: scene queries,
// viewport capture, and a liveness/capability probe.
type Client interface {
	scene.Query
	capture.Service

	// Probe asks the bridge for host/session information.
	Probe(ctx context.Context) (*Info, error)
}

// Info describes the host session behind the bridge.
type Info struct {
	HostName      string `json:"host_name"`
	HostVersion   string `json:"host_version"`
	BridgeVersion string `json:"bridge_version"`
	SceneLoaded   bool   `json:"scene_loaded"`

	ProbedAt time.Time `json:"-"`
}
