package handler

import (
	"encoding/json"
	"net/http"

	"github.com/brandconnect/marketplace-api/internal/middleware"
	"github.com/brandconnect/marketplace-api/internal/model"
	"github.com/brandconnect/marketplace-api/internal/service"
	"github.com/brandconnect/marketplace-api/internal/store"
	"github.com/brandconnect/marketplace-api/pkg/logger"
)

// ProfileViewHandler handles profile view tracking and stats endpoints.
type ProfileViewHandler struct {
	service *service.ProfileViewService
	users   store.UserStore
	logger  *logger.Logger
}

// NewProfileViewHandler creates a new profile view handler.
func NewProfileViewHandler(svc *service.ProfileViewService, users store.UserStore, log *logger.Logger) *ProfileViewHandler {
	return &ProfileViewHandler{
		service: svc,
		users:   users,
		logger:  log,
	}
}

// Track handles POST /api/v1/profile-views/track
func (h *ProfileViewHandler) Track(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := currentUser(ctx, h.users)
	if !ok {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	var req model.TrackViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateUserID(req.CreatorID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Track(ctx, user, req.CreatorID, req.ApplicationID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Stats handles GET /api/v1/profile-views/stats
func (h *ProfileViewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := currentUser(ctx, h.users)
	if !ok {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	stats, err := h.service.Stats(ctx, user)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
