package payments

import "time"

const (
	StatusCreated   = "created"
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

const DefaultCurrency = "usd"

type Payment struct {
	ID                int64
	ApplicantID       *int64
	UserID            *int64
	AmountCents       int64
	Currency          string
	CheckoutSessionID *string
	PaymentIntentID   *string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Read is the client-facing view of a payment.
type Read struct {
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	ApplicantID *int64    `json:"applicant_id"`
}

func (p Payment) Read() Read {
	return Read{
		ID:          p.ID,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		ApplicantID: p.ApplicantID,
	}
}
