// Package export writes editorial cut lists for completed playblast
// batches so the captures can be conformed in an NLE.
package export

type ExportRequest struct {
	BatchID     string `json:"batch_id"`
	ProjectName string `json:"project_name"`
	OutputDir   string `json:"output_dir"`
}

// ResolvedClip is a batch clip that survived resolution: it captured
// successfully and its file is still on disk.
type ResolvedClip struct {
	ClipName   string
	MediaPath  string
	DurationMs int
}

type ExportResponse struct {
	Status          string   `json:"status"`
	Format          string   `json:"format"`
	OutputPath      string   `json:"output_path"`
	ClipCount       int      `json:"clip_count"`
	UnresolvedClips []string `json:"unresolved_clips,omitempty"`
}
