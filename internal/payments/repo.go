package payments

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("payment not found")

type Repo interface {
	Create(ctx context.Context, p Payment) (Payment, error)
	AttachCheckout(ctx context.Context, id int64, sessionID, intentID string) (Payment, error)
	GetByCheckoutSession(ctx context.Context, sessionID string) (Payment, error)
	// MarkSucceeded flips the payment to succeeded. It reports false when
	// the payment was already succeeded.
	MarkSucceeded(ctx context.Context, id int64) (bool, error)
	SumSucceeded(ctx context.Context) (int64, error)
}
