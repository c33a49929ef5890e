package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(int64(3), "a.pdf", "application/pdf", "documents/3/x/a.pdf", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), time.Now()))

	d, err := repo.Create(context.Background(), Document{
		BundleID:      3,
		Filename:      "a.pdf",
		ContentType:   "application/pdf",
		Key:           "documents/3/x/a.pdf",
		ScannedStatus: ScanPending,
	})
	if err != nil || d.ID != 9 {
		t.Fatalf("unexpected %+v err=%v", d, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoSetSize(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE documents SET size_bytes").
		WithArgs(int64(9), int64(2048)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE documents SET size_bytes").
		WithArgs(int64(10), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetSize(context.Background(), 9, 2048); err != nil {
		t.Fatalf("set size: %v", err)
	}
	if err := repo.SetSize(context.Background(), 10, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNullSize(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("FROM documents").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bundle_id", "filename", "content_type", "s3_key", "size_bytes", "scanned_status", "created_at"}).
			AddRow(int64(9), int64(3), "a.pdf", "application/pdf", "k", nil, "pending", time.Now()))

	d, err := repo.GetByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.SizeBytes != nil || d.ScannedStatus != ScanPending {
		t.Fatalf("unexpected document %+v", d)
	}
}
