// Package scene models the host application's scene as seen by the agent:
// camera enumeration, the saved scene name, the active selection and the
// playback range. The Query interface is implemented by the host bridge
// client and by the in-memory stub.
package scene

import (
	"context"
	"strings"
)

// Query is the read/write surface of the host scene the agent needs.
// Camera enumeration returns shape node names in the host's own order;
// nothing is cached between calls.
type Query interface {
	// ListCaptureSources returns every camera shape node in the scene,
	// including the built-in system cameras, in enumeration order.
	ListCaptureSources(ctx context.Context) ([]string, error)

	// CurrentSceneShortName returns the saved scene file's short name,
	// extension included. Empty when the scene has never been saved.
	CurrentSceneShortName(ctx context.Context) (string, error)

	GetSelection(ctx context.Context) ([]string, error)
	SetSelection(ctx context.Context, nodes []string) error
	ClearSelection(ctx context.Context) error

	// FrameRange returns the playback range in frames, inclusive.
	FrameRange(ctx context.Context) (start, end float64, err error)

	// FrameRate returns the scene frame rate in frames per second.
	FrameRate(ctx context.Context) (float64, error)
}

// shapeSuffix is the naming convention for camera shape nodes; stripping it
// yields the controllable transform node.
const shapeSuffix = "Shape"

// reserved holds the short names of the host's built-in system cameras,
// which are never offered for capture.
var reserved = map[string]bool{
	"persp": true,
	"top":   true,
	"front": true,
	"side":  true,
}

// TransformName strips the shape node suffix, returning the transform
// identifier. The namespace prefix, if any, is preserved.
func TransformName(shapeNode string) string {
	return strings.TrimSuffix(shapeNode, shapeSuffix)
}

// ShortName strips any namespace prefix (text up to and including the
// last colon).
func ShortName(node string) string {
	if i := strings.LastIndex(node, ":"); i >= 0 {
		return node[i+1:]
	}
	return node
}

// IsReserved reports whether a camera's namespace-stripped short name is
// one of the built-in system cameras.
func IsReserved(transform string) bool {
	return reserved[ShortName(transform)]
}

// ListAvailable enumerates the scene's capture-capable cameras. Shape nodes
// are converted to transform names; system cameras are excluded by their
// namespace-stripped short name, so a referenced "ns:perspShape" is excluded
// just like "perspShape". Returned identifiers keep their namespace and the
// host's enumeration order.
func ListAvailable(ctx context.Context, q Query) ([]string, error) {
	shapes, err := q.ListCaptureSources(ctx)
	if err != nil {
		return nil, err
	}

	cameras := make([]string, 0, len(shapes))
	for _, shape := range shapes {
		transform := TransformName(shape)
		if IsReserved(transform) {
			continue
		}
		cameras = append(cameras, transform)
	}
	return cameras, nil
}

// SyncSelection replaces the scene's active selection with exactly the given
// nodes. An empty set leaves the scene selection empty rather than unchanged.
func SyncSelection(ctx context.Context, q Query, nodes []string) error {
	if err := q.ClearSelection(ctx); err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}
	return q.SetSelection(ctx, nodes)
}
