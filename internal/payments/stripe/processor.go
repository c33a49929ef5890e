package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"scholarvalley-api/internal/payments"
)

// Processor implements payments.Processor on Stripe Checkout.
type Processor struct {
	api           *client.API
	webhookSecret string
}

// New builds a processor. Either secret may be empty; the matching
// operation then reports itself unconfigured.
func New(secretKey, webhookSecret string) *Processor {
	p := &Processor{webhookSecret: strings.TrimSpace(webhookSecret)}
	if key := strings.TrimSpace(secretKey); key != "" {
		p.api = client.New(key, nil)
	}
	return p
}

func (p *Processor) CheckoutEnabled() bool {
	return p.api != nil
}

func (p *Processor) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (payments.CheckoutSession, error) {
	if p.api == nil {
		return payments.CheckoutSession{}, payments.ErrCheckoutNotConfigured
	}
	params := &stripeapi.CheckoutSessionParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(req.SuccessURL),
		CancelURL:  stripeapi.String(req.CancelURL),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripeapi.String(req.Currency),
					UnitAmount: stripeapi.Int64(req.AmountCents),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String(req.ProductName),
					},
				},
				Quantity: stripeapi.Int64(1),
			},
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		var stripeErr *stripeapi.Error
		if errors.As(err, &stripeErr) {
			return payments.CheckoutSession{}, fmt.Errorf("stripe checkout %s: %w", stripeErr.Code, err)
		}
		return payments.CheckoutSession{}, fmt.Errorf("stripe checkout: %w", err)
	}
	out := payments.CheckoutSession{ID: session.ID}
	if session.PaymentIntent != nil {
		out.PaymentIntentID = session.PaymentIntent.ID
	}
	return out, nil
}

func (p *Processor) ParseWebhook(payload []byte, signature string) (payments.Event, error) {
	if p.webhookSecret == "" {
		return payments.Event{}, payments.ErrWebhookNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return payments.Event{}, fmt.Errorf("%w: %v", payments.ErrInvalidWebhook, err)
	}
	out := payments.Event{ID: event.ID, Type: string(event.Type)}
	if event.Data != nil {
		if id, ok := event.Data.Object["id"].(string); ok {
			out.CheckoutSessionID = id
		}
	}
	return out, nil
}

var _ payments.Processor = (*Processor)(nil)
