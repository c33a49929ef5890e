package payments

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"scholarvalley-api/internal/audit"
	"scholarvalley-api/internal/email"
	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/metrics"
	"scholarvalley-api/internal/shared/telemetry"
)

const (
	productName         = "ScholarValley Service"
	confirmationSubject = "Payment received"
	confirmationHTML    = "<p>Your payment was received successfully.</p>"
)

// UserEmails resolves payer addresses for confirmation mail.
type UserEmails interface {
	EmailsByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type Service struct {
	Repo      Repo
	Processor Processor
	Audit     audit.Recorder
	Mailer    email.Sender
	Users     UserEmails
	Metrics   metrics.Recorder
}

func NewService(repo Repo, processor Processor, recorder audit.Recorder, mailer email.Sender, users UserEmails) *Service {
	return &Service{
		Repo:      repo,
		Processor: processor,
		Audit:     recorder,
		Mailer:    mailer,
		Users:     users,
		Metrics:   metrics.Noop{},
	}
}

type CheckoutInput struct {
	AmountCents int64
	Currency    string
	ApplicantID *int64
	SuccessURL  string
	CancelURL   string
}

// CreateCheckout records a payment in created state, then opens a hosted
// checkout for it. The local row survives a processor failure.
func (s *Service) CreateCheckout(ctx context.Context, p auth.Principal, in CheckoutInput, clientIP string) (Read, error) {
	if in.AmountCents <= 0 {
		return Read{}, apperr.Unprocessable("amount_cents must be positive")
	}
	if strings.TrimSpace(in.SuccessURL) == "" || strings.TrimSpace(in.CancelURL) == "" {
		return Read{}, apperr.Unprocessable("success_url and cancel_url are required")
	}
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if s.Processor == nil || !s.Processor.CheckoutEnabled() {
		return Read{}, apperr.Unconfigured("Stripe is not configured")
	}

	payer := p.UserID
	payment, err := s.Repo.Create(ctx, Payment{
		ApplicantID: in.ApplicantID,
		UserID:      &payer,
		AmountCents: in.AmountCents,
		Currency:    currency,
		Status:      StatusCreated,
	})
	if err != nil {
		return Read{}, err
	}

	applicantMeta := ""
	if in.ApplicantID != nil {
		applicantMeta = strconv.FormatInt(*in.ApplicantID, 10)
	}
	session, err := s.Processor.CreateCheckout(ctx, CheckoutRequest{
		AmountCents: payment.AmountCents,
		Currency:    payment.Currency,
		ProductName: productName,
		SuccessURL:  in.SuccessURL,
		CancelURL:   in.CancelURL,
		Metadata: map[string]string{
			"payment_id":   strconv.FormatInt(payment.ID, 10),
			"user_id":      strconv.FormatInt(p.UserID, 10),
			"applicant_id": applicantMeta,
		},
	})
	if errors.Is(err, ErrCheckoutNotConfigured) {
		return Read{}, apperr.Unconfigured("Stripe is not configured")
	}
	if err != nil {
		s.Metrics.Payment("checkout_failed")
		telemetry.Error("payments.checkout.failed", map[string]any{"payment_id": payment.ID, "err": err})
		return Read{}, apperr.Upstream("Error creating Stripe checkout session", err)
	}

	payment, err = s.Repo.AttachCheckout(ctx, payment.ID, session.ID, session.PaymentIntentID)
	if err != nil {
		return Read{}, err
	}
	if err := s.Audit.Record(ctx, audit.Entry{
		UserID:       audit.Actor(p.UserID),
		Action:       "payment_checkout_created",
		ResourceType: "payment",
		ResourceID:   strconv.FormatInt(payment.ID, 10),
		Metadata:     map[string]any{"stripe_checkout_session_id": session.ID},
		IPAddress:    clientIP,
	}); err != nil {
		return Read{}, err
	}
	s.Metrics.Payment("checkout_created")
	return payment.Read(), nil
}

// HandleWebhook verifies and applies one processor event. Only completed
// checkouts change state; a repeated delivery for an already-succeeded
// payment is acknowledged without side effects.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature, clientIP string) error {
	if s.Processor == nil {
		return apperr.Unconfigured("Stripe webhook is not configured")
	}
	event, err := s.Processor.ParseWebhook(payload, signature)
	if errors.Is(err, ErrWebhookNotConfigured) {
		return apperr.Unconfigured("Stripe webhook is not configured")
	}
	if err != nil {
		s.Metrics.Payment("webhook_rejected")
		telemetry.Warn("payments.webhook.rejected", map[string]any{"err": err})
		return apperr.Validation("Invalid payload")
	}
	if event.Type != EventCheckoutCompleted {
		return nil
	}

	payment, err := s.Repo.GetByCheckoutSession(ctx, event.CheckoutSessionID)
	if errors.Is(err, ErrNotFound) {
		telemetry.Warn("payments.webhook.unknown_session", map[string]any{"event_id": event.ID})
		return nil
	}
	if err != nil {
		return err
	}

	changed, err := s.Repo.MarkSucceeded(ctx, payment.ID)
	if err != nil {
		return err
	}
	if !changed {
		telemetry.Info("payments.webhook.duplicate", map[string]any{"event_id": event.ID, "payment_id": payment.ID})
		return nil
	}
	s.Metrics.Payment("succeeded")

	if payment.UserID != nil && s.Users != nil {
		emails, err := s.Users.EmailsByIDs(ctx, []int64{*payment.UserID})
		if err != nil {
			telemetry.Warn("payments.webhook.email_lookup_failed", map[string]any{"payment_id": payment.ID, "err": err})
		} else if to, ok := emails[*payment.UserID]; ok {
			email.SendBestEffort(ctx, s.Mailer, []string{to}, confirmationSubject, confirmationHTML)
		}
	}

	return s.Audit.Record(ctx, audit.Entry{
		UserID:       payment.UserID,
		Action:       "payment_succeeded",
		ResourceType: "payment",
		ResourceID:   strconv.FormatInt(payment.ID, 10),
		Metadata:     map[string]any{"stripe_checkout_session_id": event.CheckoutSessionID},
		IPAddress:    clientIP,
	})
}

// Revenue sums succeeded payments in cents.
func (s *Service) Revenue(ctx context.Context) (int64, error) {
	return s.Repo.SumSucceeded(ctx)
}
