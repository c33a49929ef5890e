package users

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/auth"
)

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	codec, err := auth.NewCodec("test-secret", "HS256")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	repo := NewMemoryRepo()
	return NewService(repo, codec, time.Hour, 24*time.Hour), repo
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "  A@X.com ", Password: "pw123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "a@x.com" || u.Role != auth.RoleClient || !u.IsActive {
		t.Fatalf("unexpected user %+v", u)
	}

	_, err = svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "other"})
	if !errors.Is(err, apperr.ErrConflict) || apperr.Message(err) != "Email already registered" {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	svc, _ := newTestService(t)
	for _, email := range []string{"", "   ", "not-an-email"} {
		if _, err := svc.Register(context.Background(), RegisterInput{Email: email, Password: "pw"}); !errors.Is(err, apperr.ErrUnprocessable) {
			t.Fatalf("email %q: expected unprocessable, got %v", email, err)
		}
	}
}

func TestLoginIssuesTokensForSubject(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	pair, err := svc.Login(ctx, "A@x.com", "pw123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.Codec.Validate(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != strconv.FormatInt(u.ID, 10) || claims.Role != auth.RoleClient {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if pair.TokenType != "bearer" || pair.RefreshToken == "" {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", Password: "pw123"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, tc := range []struct{ email, password string }{
		{"a@x.com", "wrong"},
		{"nobody@x.com", "pw123"},
	} {
		_, err := svc.Login(ctx, tc.email, tc.password)
		if !errors.Is(err, apperr.ErrValidation) || apperr.Message(err) != "Incorrect email or password" {
			t.Fatalf("%s: expected validation error, got %v", tc.email, err)
		}
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	in := RegisterInput{Email: "root@localhost", FullName: "Root", Password: "root123"}

	first, created, err := svc.EnsureUser(ctx, in, auth.RoleRoot)
	if err != nil || !created {
		t.Fatalf("expected creation, got created=%v err=%v", created, err)
	}
	second, created, err := svc.EnsureUser(ctx, in, auth.RoleRoot)
	if err != nil || created {
		t.Fatalf("expected existing user, got created=%v err=%v", created, err)
	}
	if first.ID != second.ID || second.Role != auth.RoleRoot {
		t.Fatalf("unexpected users %+v %+v", first, second)
	}
}

func TestPrincipalByID(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Email: "a@x.com", FullName: "Ada", Password: "pw123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	p, err := svc.PrincipalByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if p.UserID != u.ID || p.FullName != "Ada" || !p.Active {
		t.Fatalf("unexpected principal %+v", p)
	}

	repo.SetActive(u.ID, false)
	p, err = svc.PrincipalByID(ctx, u.ID)
	if err != nil || p.Active {
		t.Fatalf("expected inactive principal, got %+v err=%v", p, err)
	}

	if _, err := svc.PrincipalByID(ctx, 999); !errors.Is(err, auth.ErrUnknownPrincipal) {
		t.Fatalf("expected ErrUnknownPrincipal, got %v", err)
	}
}
