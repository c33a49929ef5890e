package payments

import (
	"context"
	"errors"
)

// EventCheckoutCompleted is the only webhook event acted upon.
const EventCheckoutCompleted = "checkout.session.completed"

var (
	ErrCheckoutNotConfigured = errors.New("payment processor is not configured")
	ErrWebhookNotConfigured  = errors.New("payment webhook is not configured")
	ErrInvalidWebhook        = errors.New("invalid webhook payload or signature")
)

type CheckoutRequest struct {
	AmountCents int64
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	ID              string
	PaymentIntentID string
}

// Event is a verified webhook delivery reduced to what the service reads.
type Event struct {
	ID                string
	Type              string
	CheckoutSessionID string
}

// Processor is the external payment collaborator.
type Processor interface {
	// CheckoutEnabled reports whether checkout credentials are present.
	CheckoutEnabled() bool
	CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	// ParseWebhook verifies signature over payload. Failures wrap
	// ErrInvalidWebhook or ErrWebhookNotConfigured.
	ParseWebhook(payload []byte, signature string) (Event, error)
}
