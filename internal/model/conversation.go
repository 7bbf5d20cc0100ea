package model

import (
	"time"
)

// Conversation represents a message thread between exactly two users.
// Participant IDs are stored canonically (UserAID < UserBID) so the
// unordered pair {A,B} maps to a single record system-wide.
type Conversation struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PairKey returns the canonical key for an unordered participant pair.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// HasParticipant reports whether the user is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// OtherParticipant returns the participant that is not the given user.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// StartConversationRequest is the request to start (or reuse) a conversation.
type StartConversationRequest struct {
	RecipientID    string `json:"recipient_id"`
	InitialMessage string `json:"initial_message"`
}

// ConversationSummary is the per-conversation view returned when listing a
// user's conversations.
type ConversationSummary struct {
	ID              string `json:"id"`
	OtherUserID     string `json:"other_user_id"`
	OtherUserName   string `json:"other_user_name"`
	OtherUserAvatar string `json:"other_user_avatar"`
	OtherUserOnline bool   `json:"other_user_online"`
	TotalMessages   int    `json:"total_messages"`
	LastMessage     string `json:"last_message,omitempty"`
	LastMessageTime string `json:"last_message_time,omitempty"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int                   `json:"total"`
}
