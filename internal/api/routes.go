package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/viewcap/viewcap-agent/internal/catalog"
	"github.com/viewcap/viewcap-agent/internal/scene"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Get("/cameras", listCamerasHandler(cfg))
		r.Get("/selection", getSelectionHandler(cfg))
		r.Put("/selection", setSelectionHandler(cfg))
		r.Post("/playblasts", requestPlayblastHandler(cfg))
		r.Get("/playblasts", listPlayblastsHandler(cfg))
		r.Get("/playblasts/{id}", getPlayblastHandler(cfg))
		r.Get("/review/clip", reviewClipHandler(cfg))
		r.Post("/export/edl", exportEDLHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: versionString(),
			UptimeS: uptime,
			AgentID: cfg.AgentID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		batches, _ := cfg.Repository.ListBatches(ctx, 10)
		clipsCount, _ := cfg.BatchService.CountClips(ctx)

		state := "idle"
		var activeBatch *BatchResponse
		batchesRunning := 0
		lastError := ""

		if cfg.Runner != nil && cfg.Runner.IsPaused() {
			state = "paused"
		}

		for _, b := range batches {
			if b.Status == catalog.BatchStatusRunning {
				state = "capturing"
				resp := BatchToResponse(b)
				activeBatch = &resp
				batchesRunning++
			}
			if b.Status == catalog.BatchStatusFailed && lastError == "" {
				lastError = b.Error
			}
		}

		if lastError != "" && state == "idle" {
			state = "error"
		}

		resp := StatusResponse{
			State:          state,
			LastError:      lastError,
			BatchesRunning: batchesRunning,
			ClipsCount:     clipsCount,
			ActiveBatch:    activeBatch,
		}

		if cfg.Probe != nil {
			info, err := cfg.Probe.Get(ctx)
			if err == nil && info != nil {
				resp.Host = &HostStatusResponse{
					HostName:      info.HostName,
					HostVersion:   info.HostVersion,
					BridgeVersion: info.BridgeVersion,
					SceneLoaded:   info.SceneLoaded,
					LastProbeAt:   info.ProbedAt.Format(time.RFC3339),
				}
			}
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func listCamerasHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cameras, err := scene.ListAvailable(r.Context(), cfg.Scene)
		if err != nil {
			WriteError(w, http.StatusBadGateway, "failed to list cameras: "+err.Error(), "HOST_ERROR")
			return
		}

		resp := CamerasResponse{Cameras: make([]CameraResponse, len(cameras))}
		for i, name := range cameras {
			resp.Cameras[i] = CameraResponse{
				Name:        name,
				DisplayName: scene.ShortName(name),
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getSelectionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nodes, err := cfg.Scene.GetSelection(r.Context())
		if err != nil {
			WriteError(w, http.StatusBadGateway, "failed to read selection: "+err.Error(), "HOST_ERROR")
			return
		}
		if nodes == nil {
			nodes = []string{}
		}
		WriteJSON(w, http.StatusOK, SelectionResponse{Cameras: nodes})
	}
}

func setSelectionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if err := scene.SyncSelection(r.Context(), cfg.Scene, req.Cameras); err != nil {
			WriteError(w, http.StatusBadGateway, "failed to sync selection: "+err.Error(), "HOST_ERROR")
			return
		}

		if req.Cameras == nil {
			req.Cameras = []string{}
		}
		WriteJSON(w, http.StatusOK, SelectionResponse{Cameras: req.Cameras})
	}
}

func requestPlayblastHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlayblastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.RootPath == "" {
			WriteError(w, http.StatusBadRequest, "root_path is required", "BAD_REQUEST")
			return
		}

		batch, err := cfg.BatchService.RequestBatch(r.Context(), req.RootPath, req.Cameras)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusAccepted, PlayblastAcceptedResponse{BatchID: batch.ID})
	}
}

func listPlayblastsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := cfg.BatchService.GetBatches(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list batches", "INTERNAL_ERROR")
			return
		}

		resp := BatchesResponse{Batches: make([]BatchResponse, len(batches))}
		for i, b := range batches {
			resp.Batches[i] = BatchToResponse(b)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getPlayblastHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "batch id required", "BAD_REQUEST")
			return
		}

		batch, err := cfg.BatchService.GetBatch(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if batch == nil {
			WriteError(w, http.StatusNotFound, "batch not found", "NOT_FOUND")
			return
		}

		clips, err := cfg.BatchService.GetClips(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		resp := BatchDetailResponse{
			BatchResponse: BatchToResponse(batch),
			Clips:         make([]ClipResponse, len(clips)),
		}
		for i, c := range clips {
			resp.Clips[i] = ClipToResponse(c)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func reviewClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clipID := r.URL.Query().Get("clip_id")
		if clipID == "" {
			WriteError(w, http.StatusBadRequest, "clip_id is required", "BAD_REQUEST")
			return
		}

		clip, err := cfg.BatchService.GetClip(r.Context(), clipID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if clip == nil {
			WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
			return
		}
		if !clip.OK {
			WriteError(w, http.StatusNotFound, "clip capture failed: "+clip.Error, "CLIP_FAILED")
			return
		}
		if !clip.Present {
			WriteError(w, http.StatusNotFound, "clip file is no longer on disk", "CLIP_MISSING")
			return
		}

		if err := cfg.Review.ServeClip(w, r, clip.Path); err != nil {
			cfg.Logger.Error("review stream error", "error", err, "clip_id", clipID)
		}
	}
}
