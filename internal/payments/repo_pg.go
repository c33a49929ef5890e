package payments

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const paymentColumns = `id, applicant_id, user_id, amount_cents, currency, stripe_checkout_session_id, stripe_payment_intent_id, status, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p Payment) (Payment, error) {
	const query = `
INSERT INTO payments (applicant_id, user_id, amount_cents, currency, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		nullableInt64(p.ApplicantID),
		nullableInt64(p.UserID),
		p.AmountCents,
		p.Currency,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (r *PGRepo) AttachCheckout(ctx context.Context, id int64, sessionID, intentID string) (Payment, error) {
	query := `
UPDATE payments
SET stripe_checkout_session_id = $2, stripe_payment_intent_id = $3, updated_at = now()
WHERE id = $1
RETURNING ` + paymentColumns
	var intent any
	if intentID != "" {
		intent = intentID
	}
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, id, sessionID, intent))
	if errors.Is(err, sql.ErrNoRows) {
		return Payment{}, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) GetByCheckoutSession(ctx context.Context, sessionID string) (Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE stripe_checkout_session_id = $1 ORDER BY id LIMIT 1`
	p, err := scanPayment(r.DB.QueryRowContext(ctx, query, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return Payment{}, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) MarkSucceeded(ctx context.Context, id int64) (bool, error) {
	const query = `
UPDATE payments SET status = 'succeeded', updated_at = now()
WHERE id = $1 AND status <> 'succeeded'`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PGRepo) SumSucceeded(ctx context.Context) (int64, error) {
	const query = `SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE status = 'succeeded'`
	var total int64
	err := r.DB.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(row scanner) (Payment, error) {
	var p Payment
	var applicantID, userID sql.NullInt64
	var sessionID, intentID sql.NullString
	if err := row.Scan(&p.ID, &applicantID, &userID, &p.AmountCents, &p.Currency, &sessionID, &intentID, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Payment{}, err
	}
	if applicantID.Valid {
		p.ApplicantID = &applicantID.Int64
	}
	if userID.Valid {
		p.UserID = &userID.Int64
	}
	if sessionID.Valid {
		p.CheckoutSessionID = &sessionID.String
	}
	if intentID.Valid {
		p.PaymentIntentID = &intentID.String
	}
	return p, nil
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}
