// Package store defines the storage collaborator interfaces consumed by the
// services, together with an in-memory implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/brandconnect/marketplace-api/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore resolves user identities.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// ConversationStore persists conversations keyed by their unordered
// participant pair. GetOrCreateConversation is atomic: concurrent calls for
// the same pair observe a single conversation.
type ConversationStore interface {
	GetConversationByID(ctx context.Context, id string) (*model.Conversation, error)
	GetOrCreateConversation(ctx context.Context, userA, userB string) (conv *model.Conversation, created bool, err error)
	ListConversationsByUser(ctx context.Context, userID string) ([]model.Conversation, error)
}

// MessageStore is the append-only ordered log of messages per conversation.
// AppendMessage assigns the message id and a per-conversation non-decreasing
// timestamp as a single atomic unit.
type MessageStore interface {
	AppendMessage(ctx context.Context, conversationID, senderID, content string) (*model.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int, error)
	LastMessage(ctx context.Context, conversationID string) (*model.Message, error)
}

// ProfileViewStore is the append-only ledger of profile views.
// InsertViewIfNoneSince atomically rejects the insert when a view for the
// same (viewer, creator) pair exists with ViewedAt after since.
type ProfileViewStore interface {
	InsertViewIfNoneSince(ctx context.Context, view *model.ProfileView, since time.Time) (inserted bool, err error)
	CountViewsByCreator(ctx context.Context, creatorID string) (int64, error)
	CountViewsByCreatorBetween(ctx context.Context, creatorID string, start, end time.Time) (int64, error)
}

// CampaignStore provides read access to campaigns.
type CampaignStore interface {
	GetCampaignByID(ctx context.Context, id string) (*model.Campaign, error)
	ListCampaignsByBrand(ctx context.Context, brandID string) ([]model.Campaign, error)
	ListOpenCampaigns(ctx context.Context, asOf time.Time) ([]model.Campaign, error)
}

// ApplicationStore provides read access to campaign applications.
type ApplicationStore interface {
	GetApplicationByID(ctx context.Context, id string) (*model.Application, error)
	ListApplicationsByCreator(ctx context.Context, creatorID string) ([]model.Application, error)
	ListApplicationsByCampaigns(ctx context.Context, campaignIDs []string) ([]model.Application, error)
}

// SavedCampaignStore provides read access to bookmarked campaigns.
type SavedCampaignStore interface {
	ListSavedByUser(ctx context.Context, userID string) ([]model.SavedCampaign, error)
}
