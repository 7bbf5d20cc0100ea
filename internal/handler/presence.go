package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/brandconnect/marketplace-api/internal/middleware"
	"github.com/brandconnect/marketplace-api/internal/presence"
	"github.com/brandconnect/marketplace-api/pkg/logger"
)

// PresenceHandler handles presence heartbeat endpoints.
type PresenceHandler struct {
	presence presence.Service
	logger   *logger.Logger
}

// NewPresenceHandler creates a new presence handler.
func NewPresenceHandler(pres presence.Service, log *logger.Logger) *PresenceHandler {
	return &PresenceHandler{
		presence: pres,
		logger:   log,
	}
}

// Heartbeat handles POST /api/v1/auth/heartbeat. The caller stays online
// until the presence TTL elapses without another heartbeat.
func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	if err := h.presence.SetOnline(ctx, userID); err != nil {
		h.logger.Error("failed to record heartbeat", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "presence unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
