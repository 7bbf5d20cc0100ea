package handler

import (
	"net/http"

	"github.com/brandconnect/marketplace-api/internal/model"
	"github.com/brandconnect/marketplace-api/internal/service"
	"github.com/brandconnect/marketplace-api/internal/store"
	"github.com/brandconnect/marketplace-api/pkg/logger"
)

// DashboardHandler handles dashboard statistics endpoints.
type DashboardHandler struct {
	service *service.DashboardService
	users   store.UserStore
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *service.DashboardService, users store.UserStore, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		users:   users,
		logger:  log,
	}
}

// Stats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, "")
}

// Brand handles GET /api/v1/dashboard/brand
func (h *DashboardHandler) Brand(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, model.RoleBrand)
}

// Creator handles GET /api/v1/dashboard/creator
func (h *DashboardHandler) Creator(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, model.RoleCreator)
}

func (h *DashboardHandler) stats(w http.ResponseWriter, r *http.Request, requiredRole model.Role) {
	ctx := r.Context()

	user, ok := currentUser(ctx, h.users)
	if !ok {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	if requiredRole != "" && user.Role != requiredRole {
		writeError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	stats, err := h.service.Stats(ctx, user)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
