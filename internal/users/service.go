package users

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/metrics"
)

type Service struct {
	Repo       Repo
	Codec      *auth.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Metrics    metrics.Recorder
}

func NewService(repo Repo, codec *auth.Codec, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		Repo:       repo,
		Codec:      codec,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Metrics:    metrics.Noop{},
	}
}

type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// NormalizeEmail trims and lower-cases raw. It fails when the result is
// empty or has no "@".
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !strings.Contains(email, "@") {
		return "", apperr.Unprocessable("Invalid email")
	}
	return email, nil
}

// Register creates a client account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return User{}, err
	}
	if in.Password == "" {
		return User{}, apperr.Unprocessable("Password is required")
	}
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, apperr.Conflict("Email already registered")
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	return s.create(ctx, email, in.FullName, in.Password, auth.RoleClient)
}

// EnsureUser creates the account when the email is free and otherwise
// returns the existing one untouched. created reports which happened.
func (s *Service) EnsureUser(ctx context.Context, in RegisterInput, role auth.Role) (User, bool, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return User{}, false, err
	}
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, false, err
	}
	u, err := s.create(ctx, email, in.FullName, in.Password, role)
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *Service) create(ctx context.Context, email, fullName, password string, role auth.Role) (User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, apperr.Internal("failed to hash password", err)
	}
	u := User{
		Email:          email,
		HashedPassword: hash,
		Role:           role,
		IsActive:       true,
	}
	if name := strings.TrimSpace(fullName); name != "" {
		u.FullName = &name
	}
	created, err := s.Repo.Create(ctx, u)
	if errors.Is(err, ErrEmailTaken) {
		return User{}, apperr.Conflict("Email already registered")
	}
	return created, err
}

// Login checks credentials and issues an access/refresh pair.
func (s *Service) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	invalid := apperr.Validation("Incorrect email or password")
	normalized := strings.ToLower(strings.TrimSpace(email))
	u, err := s.Repo.GetByEmail(ctx, normalized)
	if errors.Is(err, ErrNotFound) {
		s.Metrics.Login("invalid")
		return auth.TokenPair{}, invalid
	}
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !auth.VerifyPassword(password, u.HashedPassword) {
		s.Metrics.Login("invalid")
		return auth.TokenPair{}, invalid
	}
	pair, err := s.Codec.IssuePair(strconv.FormatInt(u.ID, 10), u.Role, s.AccessTTL, s.RefreshTTL)
	if err != nil {
		return auth.TokenPair{}, apperr.Internal("failed to issue token", err)
	}
	s.Metrics.Login("success")
	return pair, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.Repo.GetByID(ctx, id)
}

// PrincipalByID implements auth.PrincipalSource.
func (s *Service) PrincipalByID(ctx context.Context, id int64) (auth.Principal, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return auth.Principal{}, auth.ErrUnknownPrincipal
	}
	if err != nil {
		return auth.Principal{}, err
	}
	return u.Principal(), nil
}

// EmailsByIDs resolves owner emails for list views.
func (s *Service) EmailsByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	return s.Repo.EmailsByIDs(ctx, ids)
}

var _ auth.PrincipalSource = (*Service)(nil)
