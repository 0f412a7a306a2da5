package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/driftworks/slipway/internal/models"
	"github.com/driftworks/slipway/internal/store"
)

// BuildHandler handles build-related HTTP requests.
type BuildHandler struct {
	store  store.Store
	logger *slog.Logger
}

// NewBuildHandler creates a new build handler.
func NewBuildHandler(st store.Store, logger *slog.Logger) *BuildHandler {
	return &BuildHandler{
		store:  st,
		logger: logger,
	}
}

// Get handles GET /v1/builds/{buildID} - retrieves a specific build.
func (h *BuildHandler) Get(w http.ResponseWriter, r *http.Request) {
	buildID := chi.URLParam(r, "buildID")
	if buildID == "" {
		WriteBadRequest(w, "Build ID is required")
		return
	}

	build, err := h.store.Builds().Get(r.Context(), buildID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Build not found")
			return
		}
		h.logger.Error("failed to get build", "error", err, "build_id", buildID)
		WriteInternalError(w, "Failed to get build")
		return
	}

	WriteJSON(w, http.StatusOK, build)
}

// ListByProject handles GET /v1/projects/{projectID}/builds.
func (h *BuildHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		WriteBadRequest(w, "Project ID is required")
		return
	}

	builds, err := h.store.Builds().ListByProject(r.Context(), projectID)
	if err != nil {
		h.logger.Error("failed to list builds", "error", err, "project_id", projectID)
		WriteInternalError(w, "Failed to list builds")
		return
	}

	WriteJSON(w, http.StatusOK, builds)
}

// buildEvent is the payload the build runner posts as a build progresses.
type buildEvent struct {
	Status     models.BuildStatus   `json:"status"`
	RepoDigest string               `json:"repo_digest,omitempty"`
	URL        string               `json:"url,omitempty"`
	Job        *models.ExecutionJob `json:"job,omitempty"`
	StartedAt  *time.Time           `json:"started_at,omitempty"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
}

// Event handles POST /v1/builds/{buildID}/events - the runner's callback
// reporting status transitions, the published digest, or an attached job.
func (h *BuildHandler) Event(w http.ResponseWriter, r *http.Request) {
	buildID := chi.URLParam(r, "buildID")
	if buildID == "" {
		WriteBadRequest(w, "Build ID is required")
		return
	}

	var event buildEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		WriteBadRequest(w, "Invalid event payload")
		return
	}

	switch event.Status {
	case models.BuildStatusPending, models.BuildStatusActive,
		models.BuildStatusSucceeded, models.BuildStatusFailed:
	default:
		WriteBadRequest(w, "Unknown build status")
		return
	}

	build, err := h.store.Builds().Get(r.Context(), buildID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Build not found")
			return
		}
		h.logger.Error("failed to get build", "error", err, "build_id", buildID)
		WriteInternalError(w, "Failed to get build")
		return
	}

	build.Status = event.Status
	if event.RepoDigest != "" {
		build.RepoDigest = event.RepoDigest
	}
	if event.URL != "" {
		build.URL = event.URL
	}
	if event.Job != nil {
		event.Job.BuildID = build.ID
		build.Job = event.Job
	}
	if event.StartedAt != nil {
		build.StartedAt = event.StartedAt
	}
	if event.FinishedAt != nil {
		build.FinishedAt = event.FinishedAt
	}

	if err := h.store.Builds().Update(r.Context(), build); err != nil {
		h.logger.Error("failed to apply build event", "error", err, "build_id", buildID)
		WriteInternalError(w, "Failed to apply build event")
		return
	}

	h.logger.Info("applied build event",
		"build_id", buildID,
		"status", event.Status,
	)
	WriteJSON(w, http.StatusOK, build)
}
