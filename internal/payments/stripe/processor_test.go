package stripe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v79/webhook"

	"scholarvalley-api/internal/payments"
)

const testSecret = "whsec_test_secret"

func signed(t *testing.T, payload string, secret string) string {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return sp.Header
}

const completedEvent = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "data": {"object": {"id": "cs_test_123", "object": "checkout.session"}}
}`

func TestParseWebhookVerifiesSignature(t *testing.T) {
	p := New("", testSecret)

	event, err := p.ParseWebhook([]byte(completedEvent), signed(t, completedEvent, testSecret))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != payments.EventCheckoutCompleted || event.CheckoutSessionID != "cs_test_123" || event.ID != "evt_1" {
		t.Fatalf("unexpected event %+v", event)
	}

	_, err = p.ParseWebhook([]byte(completedEvent), signed(t, completedEvent, "whsec_other"))
	if !errors.Is(err, payments.ErrInvalidWebhook) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
	_, err = p.ParseWebhook([]byte(completedEvent), "")
	if !errors.Is(err, payments.ErrInvalidWebhook) {
		t.Fatalf("expected missing signature to fail, got %v", err)
	}
}

func TestUnconfiguredOperations(t *testing.T) {
	p := New("", "")
	if p.CheckoutEnabled() {
		t.Fatalf("expected checkout disabled without key")
	}
	if _, err := p.CreateCheckout(context.Background(), payments.CheckoutRequest{}); !errors.Is(err, payments.ErrCheckoutNotConfigured) {
		t.Fatalf("expected ErrCheckoutNotConfigured, got %v", err)
	}
	if _, err := p.ParseWebhook([]byte(completedEvent), "t=1,v1=abc"); !errors.Is(err, payments.ErrWebhookNotConfigured) {
		t.Fatalf("expected ErrWebhookNotConfigured, got %v", err)
	}
	if !New("sk_test_123", "").CheckoutEnabled() {
		t.Fatalf("expected checkout enabled with key")
	}
}
