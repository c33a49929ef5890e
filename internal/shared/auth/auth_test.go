package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"scholarvalley-api/internal/shared/apperr"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	codec, err := NewCodec("test-secret", "HS256")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec.WithClock(func() time.Time { return now })
}

func TestIssueValidateRoundTrip(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now)

	token, err := codec.Issue("42", RoleManager, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := codec.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "42" || claims.Role != RoleManager {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %s", claims.ExpiresAt)
	}
}

func TestValidateRejectsBadTokens(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now)
	token, err := codec.Issue("7", RoleClient, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other, _ := NewCodec("other-secret", "HS256")
	foreign, _ := other.WithClock(func() time.Time { return now }).Issue("7", RoleClient, time.Minute)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	cases := map[string]struct {
		token string
		codec *Codec
	}{
		"tampered signature": {token: tampered, codec: codec},
		"foreign secret":     {token: foreign, codec: codec},
		"malformed":          {token: "not-a-jwt", codec: codec},
		"empty":              {token: "", codec: codec},
		"expired":            {token: token, codec: codec.WithClock(func() time.Time { return now.Add(2 * time.Minute) })},
	}
	for name, tc := range cases {
		if _, err := tc.codec.Validate(tc.token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestIssuePairCarriesIdenticalClaims(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now)

	pair, err := codec.IssuePair("9", RoleClient, time.Hour, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	if pair.TokenType != "bearer" {
		t.Fatalf("unexpected token type %q", pair.TokenType)
	}
	access, err := codec.Validate(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	refresh, err := codec.Validate(pair.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if access.Subject != refresh.Subject || access.Role != refresh.Role {
		t.Fatalf("claims differ: %+v vs %+v", access, refresh)
	}
	if !refresh.ExpiresAt.After(access.ExpiresAt) {
		t.Fatalf("expected refresh to outlive access")
	}
}

func TestNewCodecRejectsUnsupported(t *testing.T) {
	if _, err := NewCodec("", "HS256"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewCodec("s", "RS256"); err == nil {
		t.Fatalf("expected error for RS256")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pw123" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !VerifyPassword("pw123", hash) {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("expected wrong password to fail")
	}
	if VerifyPassword("pw123", "") {
		t.Fatalf("expected empty hash to fail")
	}
}

type stubSource map[int64]Principal

func (s stubSource) PrincipalByID(_ context.Context, id int64) (Principal, error) {
	p, ok := s[id]
	if !ok {
		return Principal{}, ErrUnknownPrincipal
	}
	return p, nil
}

func TestResolver(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now)
	resolver := &Resolver{Codec: codec, Source: stubSource{
		1: {UserID: 1, Email: "a@x.com", Role: RoleClient, Active: true},
		2: {UserID: 2, Email: "b@x.com", Role: RoleClient, Active: false},
	}}

	live, _ := codec.Issue("1", RoleClient, time.Hour)
	p, err := resolver.Resolve(context.Background(), live)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Email != "a@x.com" {
		t.Fatalf("unexpected principal %+v", p)
	}

	inactive, _ := codec.Issue("2", RoleClient, time.Hour)
	missing, _ := codec.Issue("3", RoleClient, time.Hour)
	nonNumeric, _ := codec.Issue("abc", RoleClient, time.Hour)
	for name, token := range map[string]string{
		"inactive":    inactive,
		"missing":     missing,
		"non-numeric": nonNumeric,
		"garbage":     "x.y.z",
	} {
		if _, err := resolver.Resolve(context.Background(), token); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("%s: expected Unauthenticated, got %v", name, err)
		}
	}
}

func TestAnyRole(t *testing.T) {
	client := Principal{UserID: 1, Role: RoleClient}
	manager := Principal{UserID: 2, Role: RoleManager}
	root := Principal{UserID: 3, Role: RoleRoot}

	if !AnyRole()(client) {
		t.Fatalf("empty role list must allow any principal")
	}
	if Staff(client) {
		t.Fatalf("client must not pass staff gate")
	}
	if !Staff(manager) || !Staff(root) {
		t.Fatalf("manager and root must pass staff gate")
	}
	if err := Require(client, Staff); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	owner := Principal{UserID: 10, Role: RoleClient}
	stranger := Principal{UserID: 11, Role: RoleClient}
	manager := Principal{UserID: 12, Role: RoleManager}

	if err := Authorize(owner, 10, ApplicantRead); err != nil {
		t.Fatalf("owner denied: %v", err)
	}
	if err := Authorize(stranger, 10, ApplicantRead); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected Forbidden for stranger, got %v", err)
	}
	if err := Authorize(manager, 10, ApplicantRead); err != nil {
		t.Fatalf("manager denied applicant read: %v", err)
	}
	if err := Authorize(manager, 10, BundleAccess); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for manager on bundle, got %v", err)
	}
	if err := Authorize(stranger, 10, ApplicantBundle); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected NotFound for stranger on bundle, got %v", err)
	}
}
