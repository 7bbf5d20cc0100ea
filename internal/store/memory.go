package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandconnect/marketplace-api/internal/model"
)

// Memory is an in-memory implementation of all store interfaces, guarded by
// a single mutex. It backs development and tests; a relational database
// would replace it in production behind the same interfaces.
type Memory struct {
	mu sync.RWMutex

	users          map[string]*model.User
	usersByEmail   map[string]*model.User
	conversations  map[string]*model.Conversation
	pairIndex      map[string]*model.Conversation
	messages       map[string][]model.Message
	lastTimestamps map[string]time.Time
	views          []model.ProfileView
	campaigns      map[string]*model.Campaign
	campaignOrder  []string
	applications   map[string]*model.Application
	appOrder       []string
	saved          []model.SavedCampaign

	now func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:          make(map[string]*model.User),
		usersByEmail:   make(map[string]*model.User),
		conversations:  make(map[string]*model.Conversation),
		pairIndex:      make(map[string]*model.Conversation),
		messages:       make(map[string][]model.Message),
		lastTimestamps: make(map[string]time.Time),
		campaigns:      make(map[string]*model.Campaign),
		applications:   make(map[string]*model.Application),
		now:            time.Now,
	}
}

// SetClock overrides the timestamp source. Intended for tests.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// PutUser inserts or replaces a user record.
func (m *Memory) PutUser(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.Must(uuid.NewV7()).String()
	}
	m.users[u.ID] = u
	m.usersByEmail[u.Email] = u
}

// PutCampaign inserts or replaces a campaign record.
func (m *Memory) PutCampaign(c *model.Campaign) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV7()).String()
	}
	if _, ok := m.campaigns[c.ID]; !ok {
		m.campaignOrder = append(m.campaignOrder, c.ID)
	}
	m.campaigns[c.ID] = c
}

// PutApplication inserts or replaces an application record.
func (m *Memory) PutApplication(a *model.Application) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}
	if _, ok := m.applications[a.ID]; !ok {
		m.appOrder = append(m.appOrder, a.ID)
	}
	m.applications[a.ID] = a
}

// PutSavedCampaign inserts a saved-campaign record.
func (m *Memory) PutSavedCampaign(sc *model.SavedCampaign) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sc.ID == "" {
		sc.ID = uuid.Must(uuid.NewV7()).String()
	}
	m.saved = append(m.saved, *sc)
}

// GetUserByID implements UserStore.
func (m *Memory) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// GetUserByEmail implements UserStore.
func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// GetConversationByID implements ConversationStore.
func (m *Memory) GetConversationByID(ctx context.Context, id string) (*model.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

// GetOrCreateConversation implements ConversationStore. The pair index is consulted and
// updated under the same lock, so the unordered-pair uniqueness invariant
// holds under concurrent calls.
func (m *Memory) GetOrCreateConversation(ctx context.Context, userA, userB string) (*model.Conversation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := model.PairKey(userA, userB)
	if c, ok := m.pairIndex[key]; ok {
		copied := *c
		return &copied, false, nil
	}

	if userA > userB {
		userA, userB = userB, userA
	}
	c := &model.Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserAID:   userA,
		UserBID:   userB,
		CreatedAt: m.now(),
	}
	m.conversations[c.ID] = c
	m.pairIndex[key] = c

	copied := *c
	return &copied, true, nil
}

// ListConversationsByUser implements ConversationStore.
func (m *Memory) ListConversationsByUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Conversation
	for _, c := range m.conversations {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// AppendMessage implements MessageStore. The timestamp is assigned under the lock
// and clamped so it never precedes the previous message in the same
// conversation.
func (m *Memory) AppendMessage(ctx context.Context, conversationID, senderID, content string) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.conversations[conversationID]; !ok {
		return nil, ErrNotFound
	}

	ts := m.now()
	if last, ok := m.lastTimestamps[conversationID]; ok && ts.Before(last) {
		ts = last
	}
	m.lastTimestamps[conversationID] = ts

	msg := model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      ts,
	}
	m.messages[conversationID] = append(m.messages[conversationID], msg)

	copied := msg
	return &copied, nil
}

// ListMessages implements MessageStore. Messages are returned in
// append order, which the Append clamp keeps timestamp-ascending.
func (m *Memory) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.conversations[conversationID]; !ok {
		return nil, ErrNotFound
	}
	msgs := m.messages[conversationID]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// CountMessages implements MessageStore.
func (m *Memory) CountMessages(ctx context.Context, conversationID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages[conversationID]), nil
}

// LastMessage implements MessageStore. Returns ErrNotFound when the
// conversation has no messages.
func (m *Memory) LastMessage(ctx context.Context, conversationID string) (*model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.messages[conversationID]
	if len(msgs) == 0 {
		return nil, ErrNotFound
	}
	copied := msgs[len(msgs)-1]
	return &copied, nil
}

// InsertViewIfNoneSince implements ProfileViewStore. The existence check and the
// insert run under the same lock, closing the dedup race.
func (m *Memory) InsertViewIfNoneSince(ctx context.Context, view *model.ProfileView, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.views {
		v := &m.views[i]
		if v.ViewerID == view.ViewerID && v.CreatorID == view.CreatorID && v.ViewedAt.After(since) {
			return false, nil
		}
	}

	if view.ID == "" {
		view.ID = uuid.Must(uuid.NewV7()).String()
	}
	m.views = append(m.views, *view)
	return true, nil
}

// CountViewsByCreator implements ProfileViewStore.
func (m *Memory) CountViewsByCreator(ctx context.Context, creatorID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for i := range m.views {
		if m.views[i].CreatorID == creatorID {
			n++
		}
	}
	return n, nil
}

// CountViewsByCreatorBetween implements ProfileViewStore. The range is
// (start, end], matching the window arithmetic of the stats queries.
func (m *Memory) CountViewsByCreatorBetween(ctx context.Context, creatorID string, start, end time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for i := range m.views {
		v := &m.views[i]
		if v.CreatorID == creatorID && v.ViewedAt.After(start) && !v.ViewedAt.After(end) {
			n++
		}
	}
	return n, nil
}

// GetCampaignByID implements CampaignStore.
func (m *Memory) GetCampaignByID(ctx context.Context, id string) (*model.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

// ListCampaignsByBrand implements CampaignStore.
func (m *Memory) ListCampaignsByBrand(ctx context.Context, brandID string) ([]model.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Campaign
	for _, id := range m.campaignOrder {
		if c := m.campaigns[id]; c.BrandID == brandID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ListOpenCampaigns implements CampaignStore.
func (m *Memory) ListOpenCampaigns(ctx context.Context, asOf time.Time) ([]model.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Campaign
	for _, id := range m.campaignOrder {
		if c := m.campaigns[id]; c.Open(asOf) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// GetApplicationByID implements ApplicationStore.
func (m *Memory) GetApplicationByID(ctx context.Context, id string) (*model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

// ListApplicationsByCreator implements ApplicationStore.
func (m *Memory) ListApplicationsByCreator(ctx context.Context, creatorID string) ([]model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Application
	for _, id := range m.appOrder {
		if a := m.applications[id]; a.CreatorID == creatorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ListApplicationsByCampaigns implements ApplicationStore.
func (m *Memory) ListApplicationsByCampaigns(ctx context.Context, campaignIDs []string) ([]model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		wanted[id] = true
	}
	var out []model.Application
	for _, id := range m.appOrder {
		if a := m.applications[id]; wanted[a.CampaignID] {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ListSavedByUser implements SavedCampaignStore.
func (m *Memory) ListSavedByUser(ctx context.Context, userID string) ([]model.SavedCampaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.SavedCampaign
	for i := range m.saved {
		if m.saved[i].UserID == userID {
			out = append(out, m.saved[i])
		}
	}
	return out, nil
}
