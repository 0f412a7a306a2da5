package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/driftworks/slipway/internal/store"
)

// DeployHandler handles deploy-related HTTP requests.
type DeployHandler struct {
	store  store.Store
	logger *slog.Logger
}

// NewDeployHandler creates a new deploy handler.
func NewDeployHandler(st store.Store, logger *slog.Logger) *DeployHandler {
	return &DeployHandler{
		store:  st,
		logger: logger,
	}
}

// Get handles GET /v1/deploys/{deployID}.
func (h *DeployHandler) Get(w http.ResponseWriter, r *http.Request) {
	deployID := chi.URLParam(r, "deployID")
	if deployID == "" {
		WriteBadRequest(w, "Deploy ID is required")
		return
	}

	deploy, err := h.store.Deploys().Get(r.Context(), deployID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Deploy not found")
			return
		}
		h.logger.Error("failed to get deploy", "error", err, "deploy_id", deployID)
		WriteInternalError(w, "Failed to get deploy")
		return
	}

	WriteJSON(w, http.StatusOK, deploy)
}

// Builds handles GET /v1/deploys/{deployID}/builds - the candidate builds
// for the deploy's commits, own-commit builds first.
func (h *DeployHandler) Builds(w http.ResponseWriter, r *http.Request) {
	deployID := chi.URLParam(r, "deployID")
	if deployID == "" {
		WriteBadRequest(w, "Deploy ID is required")
		return
	}

	deploy, err := h.store.Deploys().Get(r.Context(), deployID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, "Deploy not found")
			return
		}
		h.logger.Error("failed to get deploy", "error", err, "deploy_id", deployID)
		WriteInternalError(w, "Failed to get deploy")
		return
	}

	builds, err := h.store.Builds().FindByCommits(r.Context(), deploy.CandidateCommits())
	if err != nil {
		h.logger.Error("failed to list deploy builds", "error", err, "deploy_id", deployID)
		WriteInternalError(w, "Failed to list deploy builds")
		return
	}

	WriteJSON(w, http.StatusOK, builds)
}
