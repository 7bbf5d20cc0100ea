package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/brandconnect/marketplace-api/internal/model"
)

const (
	// StreamName is the name of the durable message journal stream.
	StreamName = "MESSAGES"

	// SubjectPrefix is the prefix for all journal subjects.
	SubjectPrefix = "msg"
)

// Journal mirrors conversation messages onto a durable JetStream stream.
// The store stays the canonical read path; the journal is an append-only
// audit trail.
type Journal struct {
	client *Client
}

// NewJournal creates a new message journal.
func NewJournal(client *Client) *Journal {
	return &Journal{client: client}
}

// EnsureStream ensures the journal stream exists with proper configuration.
func (j *Journal) EnsureStream(ctx context.Context) error {
	js := j.client.JetStream()

	// Check if stream exists
	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil // Stream already exists
	}

	// Create stream
	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      365 * 24 * time.Hour,
		MaxBytes:    100 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Durable journal of all conversation messages",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// MessageSubject returns the journal subject for a message.
func MessageSubject(conversationID, senderID string) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, conversationID, senderID)
}

// JournalMessage publishes a message to the journal stream and returns its
// stream sequence.
func (j *Journal) JournalMessage(ctx context.Context, msg *model.Message) (uint64, error) {
	subject := MessageSubject(msg.ConversationID, msg.SenderID)

	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message: %w", err)
	}

	ack, err := j.client.JetStream().Publish(ctx, subject, data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish message: %w", err)
	}

	return ack.Sequence, nil
}
