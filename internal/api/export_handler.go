package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/viewcap/viewcap-agent/internal/catalog"
	"github.com/viewcap/viewcap-agent/internal/export"
)

// exportEDLHandler writes a CMX3600 cut list for one completed batch.
// Failed captures and clips whose files have since disappeared are
// reported as unresolved rather than failing the export.
func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.BatchID == "" {
			WriteError(w, http.StatusBadRequest, "batch_id is required", "BAD_REQUEST")
			return
		}

		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		batch, err := cfg.BatchService.GetBatch(r.Context(), req.BatchID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if batch == nil {
			WriteError(w, http.StatusNotFound, "batch not found", "NOT_FOUND")
			return
		}
		if batch.Status != catalog.BatchStatusCompleted {
			WriteError(w, http.StatusConflict, "batch has not completed", "BATCH_NOT_COMPLETED")
			return
		}

		clips, err := cfg.BatchService.GetClips(r.Context(), batch.ID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		projectName := export.SanitizeName(req.ProjectName, 120)
		if projectName == "" {
			projectName = export.SanitizeName(batch.Shot, 120)
		}
		if projectName == "" {
			projectName = "viewcap_export"
		}

		durationMs := export.RangeDurationMs(batch.FrameStart, batch.FrameEnd, batch.FrameRate)

		resolved := make([]export.ResolvedClip, 0, len(clips))
		unresolved := make([]string, 0)
		for _, clip := range clips {
			if !clip.OK || !clip.Present {
				unresolved = append(unresolved, clip.DisplayName)
				continue
			}
			resolved = append(resolved, export.ResolvedClip{
				ClipName:   clip.DisplayName,
				MediaPath:  clip.Path,
				DurationMs: durationMs,
			})
		}

		if len(resolved) == 0 {
			WriteError(w, http.StatusUnprocessableEntity, "no clips could be resolved", "UNRESOLVABLE_CLIPS")
			return
		}

		edl := export.GenerateEDL(resolved, projectName, batch.FrameRate)
		outputPath := filepath.Join(req.OutputDir, projectName+".edl")
		if err := os.WriteFile(outputPath, []byte(edl), 0o644); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, export.ExportResponse{
			Status:          "ok",
			Format:          "edl",
			OutputPath:      outputPath,
			ClipCount:       len(resolved),
			UnresolvedClips: unresolved,
		})
	}
}
