// Package service provides business logic for the marketplace platform.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brandconnect/marketplace-api/internal/apperr"
	"github.com/brandconnect/marketplace-api/internal/model"
	"github.com/brandconnect/marketplace-api/internal/presence"
	"github.com/brandconnect/marketplace-api/internal/store"
	"github.com/brandconnect/marketplace-api/pkg/logger"
	"github.com/brandconnect/marketplace-api/pkg/metrics"
)

const (
	unknownUserName   = "Unknown User"
	placeholderAvatar = "/placeholder.jpg"

	// 12-hour clock with AM/PM marker, not timezone-aware.
	lastMessageTimeLayout = "03:04 PM"
)

// MessageJournal mirrors appended messages onto a durable stream. A nil
// journal disables mirroring.
type MessageJournal interface {
	JournalMessage(ctx context.Context, msg *model.Message) (uint64, error)
}

// Notifier delivers fire-and-forget email notifications. A nil notifier
// disables them.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ConversationService orchestrates conversation lookup/creation and message
// append/read.
type ConversationService struct {
	users         store.UserStore
	conversations store.ConversationStore
	messages      store.MessageStore
	presence      presence.Service
	journal       MessageJournal
	notifier      Notifier
	logger        *logger.Logger
}

// NewConversationService creates a new conversation service. journal and
// notifier may be nil.
func NewConversationService(
	users store.UserStore,
	conversations store.ConversationStore,
	messages store.MessageStore,
	pres presence.Service,
	journal MessageJournal,
	notifier Notifier,
	log *logger.Logger,
) *ConversationService {
	return &ConversationService{
		users:         users,
		conversations: conversations,
		messages:      messages,
		presence:      pres,
		journal:       journal,
		notifier:      notifier,
		logger:        log,
	}
}

// GetOrCreate returns the conversation for the unordered pair {a, b},
// creating it when none exists. The operation is idempotent: (a,b) and
// (b,a) resolve to the same conversation.
func (s *ConversationService) GetOrCreate(ctx context.Context, userA, userB string) (*model.Conversation, error) {
	if userA == userB {
		return nil, apperr.Validation("cannot start a conversation with yourself")
	}

	conv, created, err := s.conversations.GetOrCreateConversation(ctx, userA, userB)
	if err != nil {
		return nil, apperr.Unavailable(err, "conversation store")
	}

	if created {
		s.logger.Info("conversation created",
			zap.String("conversation_id", conv.ID),
			zap.String("user_a", conv.UserAID),
			zap.String("user_b", conv.UserBID),
		)
		metrics.ConversationsStarted.Inc()
	}

	return conv, nil
}

// Start creates (or reuses) the conversation between initiator and
// recipient, then appends the initial message from the initiator.
func (s *ConversationService) Start(ctx context.Context, initiator *model.User, recipientID, initialMessage string) (*model.Conversation, error) {
	if initialMessage == "" {
		return nil, apperr.Validation("initial message cannot be empty")
	}

	recipient, err := s.users.GetUserByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("recipient %s not found", recipientID)
		}
		return nil, apperr.Unavailable(err, "user store")
	}

	conv, err := s.GetOrCreate(ctx, initiator.ID, recipient.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.append(ctx, conv, initiator.ID, initialMessage); err != nil {
		return nil, err
	}

	s.notify(recipient, initiator,
		"New message on BrandConnect",
		fmt.Sprintf("%s started a conversation with you.", initiator.Name))

	return conv, nil
}

// List returns summaries of the conversations the user participates in.
// Ordering follows storage order.
func (s *ConversationService) List(ctx context.Context, user *model.User) ([]model.ConversationSummary, error) {
	convs, err := s.conversations.ListConversationsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Unavailable(err, "conversation store")
	}

	summaries := make([]model.ConversationSummary, 0, len(convs))
	for i := range convs {
		conv := &convs[i]
		summary := model.ConversationSummary{
			ID:              conv.ID,
			OtherUserID:     conv.OtherParticipant(user.ID),
			OtherUserName:   unknownUserName,
			OtherUserAvatar: placeholderAvatar,
		}

		if other, err := s.users.GetUserByID(ctx, summary.OtherUserID); err == nil {
			if other.Name != "" {
				summary.OtherUserName = other.Name
			}
			if other.Avatar != "" {
				summary.OtherUserAvatar = other.Avatar
			}
		}

		if s.presence != nil {
			if online, err := s.presence.IsOnline(ctx, summary.OtherUserID); err == nil {
				summary.OtherUserOnline = online
			}
		}

		count, err := s.messages.CountMessages(ctx, conv.ID)
		if err != nil {
			return nil, apperr.Unavailable(err, "message store")
		}
		summary.TotalMessages = count

		last, err := s.messages.LastMessage(ctx, conv.ID)
		switch {
		case err == nil:
			summary.LastMessage = last.Content
			summary.LastMessageTime = last.CreatedAt.Format(lastMessageTimeLayout)
		case !errors.Is(err, store.ErrNotFound):
			return nil, apperr.Unavailable(err, "message store")
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Messages returns the full ordered message log of a conversation.
func (s *ConversationService) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	if _, err := s.getConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListMessages(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("conversation %s not found", conversationID)
		}
		return nil, apperr.Unavailable(err, "message store")
	}
	return msgs, nil
}

// Send appends a message from sender to the conversation's log. The sender
// must be one of the two participants.
func (s *ConversationService) Send(ctx context.Context, conversationID string, sender *model.User, content string) (*model.Message, error) {
	if content == "" {
		return nil, apperr.Validation("message content cannot be empty")
	}

	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.HasParticipant(sender.ID) {
		return nil, apperr.Authorization("sender is not a participant of this conversation")
	}

	msg, err := s.append(ctx, conv, sender.ID, content)
	if err != nil {
		return nil, err
	}

	if recipient, err := s.users.GetUserByID(ctx, conv.OtherParticipant(sender.ID)); err == nil {
		s.notify(recipient, sender,
			"New message on BrandConnect",
			fmt.Sprintf("%s sent you a message.", sender.Name))
	}

	return msg, nil
}

func (s *ConversationService) getConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conv, err := s.conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("conversation %s not found", conversationID)
		}
		return nil, apperr.Unavailable(err, "conversation store")
	}
	return conv, nil
}

func (s *ConversationService) append(ctx context.Context, conv *model.Conversation, senderID, content string) (*model.Message, error) {
	msg, err := s.messages.AppendMessage(ctx, conv.ID, senderID, content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("conversation %s not found", conv.ID)
		}
		return nil, apperr.Unavailable(err, "message store")
	}

	if s.journal != nil {
		seq, err := s.journal.JournalMessage(ctx, msg)
		if err != nil {
			s.logger.Warn("failed to journal message",
				zap.String("message_id", msg.ID),
				zap.Error(err),
			)
		} else {
			msg.Sequence = seq
		}
	}

	metrics.MessagesSent.Inc()
	return msg, nil
}

// notify fires an email notification without blocking or failing the
// request.
func (s *ConversationService) notify(recipient, sender *model.User, subject, body string) {
	if s.notifier == nil || recipient.Email == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.SendEmail(ctx, recipient.Email, subject, body); err != nil {
			s.logger.Warn("failed to send notification email",
				zap.String("recipient_id", recipient.ID),
				zap.String("sender_id", sender.ID),
				zap.Error(err),
			)
		}
	}()
}
