// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brandconnect/marketplace-api/internal/middleware"
	"github.com/brandconnect/marketplace-api/internal/model"
	"github.com/brandconnect/marketplace-api/internal/service"
	"github.com/brandconnect/marketplace-api/internal/store"
	"github.com/brandconnect/marketplace-api/pkg/logger"
)

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service *service.ConversationService
	users   store.UserStore
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, users store.UserStore, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: svc,
		users:   users,
		logger:  log,
	}
}

// currentUser resolves the authenticated caller to a user record.
func currentUser(ctx context.Context, users store.UserStore) (*model.User, bool) {
	id := middleware.GetUserID(ctx)
	if id == "" {
		return nil, false
	}
	user, err := users.GetUserByID(ctx, id)
	if err != nil {
		return nil, false
	}
	return user, true
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := currentUser(ctx, h.users)
	if !ok {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	summaries, err := h.service.List(ctx, user)
	if err != nil {
		h.logger.Error("failed to list conversations", zap.Error(err))
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ListConversationsResponse{
		Conversations: summaries,
		Total:         len(summaries),
	})
}

// Start handles POST /api/v1/conversations
func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := currentUser(ctx, h.users)
	if !ok {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	var req model.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateUserID(req.RecipientID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMessageContent(req.InitialMessage); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.service.Start(ctx, user, req.RecipientID, req.InitialMessage)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}

// Messages handles GET /api/v1/conversations/{id}/messages
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msgs, err := h.service.Messages(ctx, conversationID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ListMessagesResponse{
		Messages: msgs,
		Total:    len(msgs),
	})
}

// Send handles POST /api/v1/conversations/{id}/messages
func (h *ConversationHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, ok := currentUser(ctx, h.users)
	if !ok {
		writeError(w, http.StatusUnauthorized, "user not found")
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.Send(ctx, conversationID, user, req.Content)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
