package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"scholarvalley-api/internal/shared/auth"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	created := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@x.com", nil, "hash", "client", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), created))

	u, err := repo.Create(context.Background(), User{
		Email:          "a@x.com",
		HashedPassword: "hash",
		Role:           auth.RoleClient,
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID != 1 || !u.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err = repo.Create(context.Background(), User{Email: "a@x.com", HashedPassword: "hash", Role: auth.RoleClient})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestPGRepoGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, email, full_name, hashed_password, role, is_active, created_at FROM users WHERE email").
		WithArgs("m@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "hashed_password", "role", "is_active", "created_at"}).
			AddRow(int64(4), "m@x.com", "Manager One", "hash", "manager", true, now))

	u, err := repo.GetByEmail(context.Background(), "m@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Role != auth.RoleManager || u.FullName == nil || *u.FullName != "Manager One" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT id, email").WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoleOfFallsBackToClient(t *testing.T) {
	if roleOf("superuser") != auth.RoleClient {
		t.Fatalf("expected unknown role to map to client")
	}
	if roleOf("root") != auth.RoleRoot {
		t.Fatalf("expected root")
	}
}
