package mail

import (
	"context"
	"fmt"
	"log/slog"

	"waitlist-api/pkg/clients/llm"
)

// Sender defines the interface for delivering the welcome email.
// Implementations can be swapped between a stub (for dev/testing)
// and the real transactional provider.
type Sender interface {
	// Send renders the welcome email for the generated content and delivers
	// it to a single recipient. No retries, no batching.
	Send(ctx context.Context, to string, content llm.Content) error
}

// DeliveryError wraps failures from the transactional email provider.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return fmt.Sprintf("email delivery: %v", e.Err) }
func (e *DeliveryError) Unwrap() error { return e.Err }

// StubSender logs emails instead of sending them.
// Used for local development without a provider key.
type StubSender struct{}

func (StubSender) Send(_ context.Context, to string, content llm.Content) error {
	slog.Info("sending email (stub)", "to", to, "subject", content.Subject)
	return nil
}
