package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims is the signed payload: sub (user id), role and exp.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenClaims is the validated view of a token.
type TokenClaims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// TokenPair is issued on login. Both tokens carry identical claims.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Codec signs and validates bearer tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewCodec builds a codec for one of HS256, HS384 or HS512.
func NewCodec(secret, algorithm string) (*Codec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	var method jwt.SigningMethod
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	return &Codec{secret: []byte(secret), method: method, now: time.Now}, nil
}

// WithClock overrides the time source. Tests only.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue signs a token for subject valid for ttl.
func (c *Codec) Issue(subject string, role Role, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("sub is required")
	}
	now := c.now().UTC()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssuePair returns an access and a refresh token for the same identity.
func (c *Codec) IssuePair(subject string, role Role, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	access, err := c.Issue(subject, role, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := c.Issue(subject, role, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// Validate verifies signature and expiry. Every failure is ErrInvalidToken.
func (c *Codec) Validate(token string) (TokenClaims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims,
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return TokenClaims{}, ErrInvalidToken
	}
	return TokenClaims{
		Subject:   claims.Subject,
		Role:      Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
