package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var paymentCols = []string{"id", "applicant_id", "user_id", "amount_cents", "currency", "stripe_checkout_session_id", "stripe_payment_intent_id", "status", "created_at", "updated_at"}

func TestPGRepoCreateAndAttach(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(nil, int64(5), int64(2500), "usd", "created").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))
	mock.ExpectQuery("UPDATE payments").
		WithArgs(int64(1), "cs_1", nil).
		WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(int64(1), nil, int64(5), int64(2500), "usd", "cs_1", nil, "created", now, now))

	user := int64(5)
	p, err := repo.Create(context.Background(), Payment{UserID: &user, AmountCents: 2500, Currency: "usd", Status: StatusCreated})
	if err != nil || p.ID != 1 {
		t.Fatalf("unexpected %+v err=%v", p, err)
	}
	p, err = repo.AttachCheckout(context.Background(), 1, "cs_1", "")
	if err != nil || p.CheckoutSessionID == nil || *p.CheckoutSessionID != "cs_1" || p.PaymentIntentID != nil {
		t.Fatalf("unexpected %+v err=%v", p, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByCheckoutSessionNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM payments WHERE stripe_checkout_session_id").
		WithArgs("cs_missing").
		WillReturnRows(sqlmock.NewRows(paymentCols))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByCheckoutSession(context.Background(), "cs_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoMarkSucceededIsConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE payments SET status = 'succeeded'").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payments SET status = 'succeeded'").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount_cents\\), 0\\) FROM payments").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(2500)))

	repo := &PGRepo{DB: db}
	changed, err := repo.MarkSucceeded(context.Background(), 1)
	if err != nil || !changed {
		t.Fatalf("first mark: changed=%v err=%v", changed, err)
	}
	changed, err = repo.MarkSucceeded(context.Background(), 1)
	if err != nil || changed {
		t.Fatalf("second mark: changed=%v err=%v", changed, err)
	}
	total, err := repo.SumSucceeded(context.Background())
	if err != nil || total != 2500 {
		t.Fatalf("sum = %d err=%v", total, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
