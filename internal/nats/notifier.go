package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brandconnect/marketplace-api/pkg/metrics"
)

// NotifySubject is the subject outbound email payloads are published to.
// A downstream worker picks them up; the core observes no delivery
// guarantee.
const NotifySubject = "notify.email"

// EmailPayload is the wire form of an outbound email notification.
type EmailPayload struct {
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailNotifier publishes email notifications over core NATS,
// fire-and-forget.
type EmailNotifier struct {
	client *Client
}

// NewEmailNotifier creates a new email notifier.
func NewEmailNotifier(client *Client) *EmailNotifier {
	return &EmailNotifier{client: client}
}

// SendEmail publishes an email payload. It returns once the payload has
// been handed to the NATS connection; delivery is not awaited.
func (n *EmailNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	payload := EmailPayload{
		To:        to,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	if err := n.client.Conn().Publish(NotifySubject, data); err != nil {
		return fmt.Errorf("failed to publish email payload: %w", err)
	}

	metrics.NotificationsPublished.Inc()
	return nil
}
