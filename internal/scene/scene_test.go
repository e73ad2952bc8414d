package scene

import (
	"context"
	"reflect"
	"testing"
)

type fakeQuery struct {
	shapes    []string
	sceneName string
	selection []string
	cleared   int
}

func (f *fakeQuery) ListCaptureSources(ctx context.Context) ([]string, error) {
	return f.shapes, nil
}

func (f *fakeQuery) CurrentSceneShortName(ctx context.Context) (string, error) {
	return f.sceneName, nil
}

func (f *fakeQuery) GetSelection(ctx context.Context) ([]string, error) {
	return f.selection, nil
}

func (f *fakeQuery) SetSelection(ctx context.Context, nodes []string) error {
	f.selection = append([]string{}, nodes...)
	return nil
}

func (f *fakeQuery) ClearSelection(ctx context.Context) error {
	f.cleared++
	f.selection = nil
	return nil
}

func (f *fakeQuery) FrameRange(ctx context.Context) (float64, float64, error) {
	return 1, 24, nil
}

func (f *fakeQuery) FrameRate(ctx context.Context) (float64, error) {
	return 24, nil
}

func TestTransformName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"camAShape", "camA"},
		{"ns:camAShape", "ns:camA"},
		{"camA", "camA"},
		{"perspShape", "persp"},
	}

	for _, tt := range tests {
		if got := TransformName(tt.in); got != tt.want {
			t.Errorf("TransformName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"camA", "camA"},
		{"ns:camA", "camA"},
		{"outer:inner:camA", "camA"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ShortName(tt.in); got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListAvailable_ExcludesSystemCameras(t *testing.T) {
	q := &fakeQuery{shapes: []string{
		"perspShape",
		"topShape",
		"frontShape",
		"sideShape",
		"camAShape",
		"ns:perspShape",
		"ns:camBShape",
	}}

	got, err := ListAvailable(context.Background(), q)
	if err != nil {
		t.Fatalf("ListAvailable() error = %v", err)
	}

	want := []string{"camA", "ns:camB"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListAvailable() = %v, want %v", got, want)
	}
}

func TestListAvailable_PreservesOrder(t *testing.T) {
	q := &fakeQuery{shapes: []string{"camZShape", "camAShape", "camMShape"}}

	got, err := ListAvailable(context.Background(), q)
	if err != nil {
		t.Fatalf("ListAvailable() error = %v", err)
	}

	want := []string{"camZ", "camA", "camM"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListAvailable() = %v, want %v (enumeration order)", got, want)
	}
}

func TestSyncSelection_ReplacesSelection(t *testing.T) {
	q := &fakeQuery{selection: []string{"oldNode"}}

	if err := SyncSelection(context.Background(), q, []string{"camX"}); err != nil {
		t.Fatalf("SyncSelection() error = %v", err)
	}

	if q.cleared != 1 {
		t.Errorf("ClearSelection called %d times, want 1", q.cleared)
	}
	if !reflect.DeepEqual(q.selection, []string{"camX"}) {
		t.Errorf("selection = %v, want [camX]", q.selection)
	}
}

func TestSyncSelection_EmptyClearsSelection(t *testing.T) {
	q := &fakeQuery{selection: []string{"camX", "camY"}}

	if err := SyncSelection(context.Background(), q, nil); err != nil {
		t.Fatalf("SyncSelection() error = %v", err)
	}

	if len(q.selection) != 0 {
		t.Errorf("selection = %v, want empty", q.selection)
	}
}
