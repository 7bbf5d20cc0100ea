package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brandconnect/marketplace-api/internal/middleware"
	"github.com/brandconnect/marketplace-api/internal/model"
	"github.com/brandconnect/marketplace-api/internal/presence"
	"github.com/brandconnect/marketplace-api/internal/service"
	"github.com/brandconnect/marketplace-api/internal/store"
	"github.com/brandconnect/marketplace-api/pkg/logger"
)

type testEnv struct {
	router  chi.Router
	db      *store.Memory
	pres    *presence.MemoryService
	brand   *model.User
	creator *model.User
}

// authAs stamps the user id into the request context the way the JWT
// middleware does in production.
func authAs(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestEnv(t *testing.T, callerID string) *testEnv {
	t.Helper()

	db := store.NewMemory()
	pres := presence.NewMemoryService(time.Minute)
	log := logger.NewNop()

	conversationSvc := service.NewConversationService(db, db, db, pres, nil, nil, log)
	profileViewSvc := service.NewProfileViewService(db, db, db, time.Hour, log)
	dashboardSvc := service.NewDashboardService(db, db, db, db, nil, log)

	conversationHandler := NewConversationHandler(conversationSvc, db, log)
	profileViewHandler := NewProfileViewHandler(profileViewSvc, db, log)
	dashboardHandler := NewDashboardHandler(dashboardSvc, db, log)
	presenceHandler := NewPresenceHandler(pres, log)

	r := chi.NewRouter()
	r.Use(authAs(callerID))
	r.Post("/auth/heartbeat", presenceHandler.Heartbeat)
	r.Get("/conversations", conversationHandler.List)
	r.Post("/conversations", conversationHandler.Start)
	r.Get("/conversations/{id}/messages", conversationHandler.Messages)
	r.Post("/conversations/{id}/messages", conversationHandler.Send)
	r.Post("/profile-views/track", profileViewHandler.Track)
	r.Get("/profile-views/stats", profileViewHandler.Stats)
	r.Get("/dashboard/stats", dashboardHandler.Stats)
	r.Get("/dashboard/brand", dashboardHandler.Brand)
	r.Get("/dashboard/creator", dashboardHandler.Creator)

	return &testEnv{router: r, db: db, pres: pres}
}

func seedUsers(env *testEnv, brandID, creatorID string) {
	env.brand = &model.User{ID: brandID, Name: "Acme", Email: "acme@example.com", Role: model.RoleBrand}
	env.creator = &model.User{ID: creatorID, Name: "Jordan", Email: "jordan@example.com", Role: model.RoleCreator}
	env.db.PutUser(env.brand)
	env.db.PutUser(env.creator)
}

func doJSON(t *testing.T, router chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStartConversationEndpoint(t *testing.T) {
	brandID := uuid.NewString()
	creatorID := uuid.NewString()
	env := newTestEnv(t, brandID)
	seedUsers(env, brandID, creatorID)

	rec := doJSON(t, env.router, http.MethodPost, "/conversations",
		model.StartConversationRequest{RecipientID: creatorID, InitialMessage: "Hi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var conv model.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if conv.ID == "" {
		t.Error("expected conversation id in response")
	}

	// A second start resolves to the same conversation.
	rec = doJSON(t, env.router, http.MethodPost, "/conversations",
		model.StartConversationRequest{RecipientID: creatorID, InitialMessage: "again"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var conv2 model.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv2); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if conv2.ID != conv.ID {
		t.Errorf("expected same conversation, got %s and %s", conv.ID, conv2.ID)
	}
}

func TestStartConversationEndpoint_BadRequests(t *testing.T) {
	brandID := uuid.NewString()
	creatorID := uuid.NewString()
	env := newTestEnv(t, brandID)
	seedUsers(env, brandID, creatorID)

	// Malformed recipient id.
	rec := doJSON(t, env.router, http.MethodPost, "/conversations",
		model.StartConversationRequest{RecipientID: "not-a-uuid", InitialMessage: "Hi"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad recipient id, got %d", rec.Code)
	}

	// Empty message.
	rec = doJSON(t, env.router, http.MethodPost, "/conversations",
		model.StartConversationRequest{RecipientID: creatorID, InitialMessage: ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty message, got %d", rec.Code)
	}

	// Recipient that does not exist.
	rec = doJSON(t, env.router, http.MethodPost, "/conversations",
		model.StartConversationRequest{RecipientID: uuid.NewString(), InitialMessage: "Hi"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown recipient, got %d", rec.Code)
	}
}

func TestListConversationsEndpoint(t *testing.T) {
	brandID := uuid.NewString()
	creatorID := uuid.NewString()
	env := newTestEnv(t, brandID)
	seedUsers(env, brandID, creatorID)

	doJSON(t, env.router, http.MethodPost, "/conversations",
		model.StartConversationRequest{RecipientID: creatorID, InitialMessage: "Hi"})

	rec := doJSON(t, env.router, http.MethodGet, "/conversations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp model.ListConversationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %+v", resp)
	}
	if resp.Conversations[0].OtherUserID != creatorID {
		t.Errorf("expected other user %s, got %s", creatorID, resp.Conversations[0].OtherUserID)
	}
	if resp.Conversations[0].LastMessage != "Hi" {
		t.Errorf("expected last message Hi, got %q", resp.Conversations[0].LastMessage)
	}
}

func TestSendMessageEndpoint_NonParticipant(t *testing.T) {
	brandID := uuid.NewString()
	creatorID := uuid.NewString()
	outsiderID := uuid.NewString()

	// Seed the conversation as the brand, then call as the outsider.
	setup := newTestEnv(t, brandID)
	seedUsers(setup, brandID, creatorID)
	rec := doJSON(t, setup.router, http.MethodPost, "/conversations",
		model.StartConversationRequest{RecipientID: creatorID, InitialMessage: "Hi"})
	var conv model.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	setup.db.PutUser(&model.User{ID: outsiderID, Email: "other@example.com", Role: model.RoleBrand})

	outsiderRouter := chi.NewRouter()
	outsiderRouter.Use(authAs(outsiderID))
	log := logger.NewNop()
	svc := service.NewConversationService(setup.db, setup.db, setup.db, setup.pres, nil, nil, log)
	h := NewConversationHandler(svc, setup.db, log)
	outsiderRouter.Post("/conversations/{id}/messages", h.Send)

	rec = doJSON(t, outsiderRouter, http.MethodPost, "/conversations/"+conv.ID+"/messages",
		model.SendMessageRequest{Content: "let me in"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-participant, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMessagesEndpoint_UnknownConversation(t *testing.T) {
	brandID := uuid.NewString()
	env := newTestEnv(t, brandID)
	seedUsers(env, brandID, uuid.NewString())

	rec := doJSON(t, env.router, http.MethodGet, "/conversations/"+uuid.NewString()+"/messages", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestTrackViewEndpoint(t *testing.T) {
	brandID := uuid.NewString()
	creatorID := uuid.NewString()
	env := newTestEnv(t, brandID)
	seedUsers(env, brandID, creatorID)

	rec := doJSON(t, env.router, http.MethodPost, "/profile-views/track",
		model.TrackViewRequest{CreatorID: creatorID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res model.TrackViewResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.Recorded {
		t.Errorf("expected recorded view, got %+v", res)
	}

	// Repeat inside the dedup window.
	rec = doJSON(t, env.router, http.MethodPost, "/profile-views/track",
		model.TrackViewRequest{CreatorID: creatorID})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.Skipped {
		t.Errorf("expected skipped view, got %+v", res)
	}
}

func TestViewStatsEndpoint_BrandForbidden(t *testing.T) {
	brandID := uuid.NewString()
	env := newTestEnv(t, brandID)
	seedUsers(env, brandID, uuid.NewString())

	rec := doJSON(t, env.router, http.MethodGet, "/profile-views/stats", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for brand caller, got %d", rec.Code)
	}
}

func TestDashboardEndpoints(t *testing.T) {
	brandID := uuid.NewString()
	env := newTestEnv(t, brandID)
	seedUsers(env, brandID, uuid.NewString())

	rec := doJSON(t, env.router, http.MethodGet, "/dashboard/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var stats model.DashboardStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Role != model.RoleBrand || stats.Brand == nil {
		t.Errorf("expected brand bundle, got %+v", stats)
	}

	// Role-pinned endpoint for the other role is forbidden.
	rec = doJSON(t, env.router, http.MethodGet, "/dashboard/creator", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 on creator dashboard for brand, got %d", rec.Code)
	}

	rec = doJSON(t, env.router, http.MethodGet, "/dashboard/brand", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 on brand dashboard, got %d", rec.Code)
	}
}

func TestHeartbeatEndpoint(t *testing.T) {
	brandID := uuid.NewString()
	creatorID := uuid.NewString()
	env := newTestEnv(t, brandID)
	seedUsers(env, brandID, creatorID)

	rec := doJSON(t, env.router, http.MethodPost, "/auth/heartbeat", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	online, err := env.pres.IsOnline(context.Background(), brandID)
	if err != nil {
		t.Fatalf("IsOnline failed: %v", err)
	}
	if !online {
		t.Error("expected caller to be online after heartbeat")
	}
}

func TestUnauthenticatedRequest(t *testing.T) {
	env := newTestEnv(t, "")

	rec := doJSON(t, env.router, http.MethodGet, "/conversations", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a user, got %d", rec.Code)
	}
}
