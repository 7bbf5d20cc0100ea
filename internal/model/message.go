package model

import (
	"time"
)

// Message represents a single message in a conversation. Messages are
// immutable once appended; there is no edit or delete path.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`

	// Journal sequence, populated when the message has been published to
	// the durable message stream.
	Sequence uint64 `json:"sequence,omitempty"`
}

// SendMessageRequest is the request to append a message to a conversation.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// ListMessagesResponse is the response for reading a conversation's log.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}
