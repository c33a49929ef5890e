package auth

import (
	"context"
	"errors"
	"strconv"

	"scholarvalley-api/internal/shared/apperr"
)

// Role is the sole authorization dimension.
type Role string

const (
	RoleClient  Role = "client"
	RoleManager Role = "manager"
	RoleRoot    Role = "root"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleManager, RoleRoot:
		return true
	}
	return false
}

// Staff reports manager or root.
func (r Role) Staff() bool {
	return r == RoleManager || r == RoleRoot
}

// Principal is the resolved identity of a request.
type Principal struct {
	UserID   int64
	Email    string
	FullName string
	Role     Role
	Active   bool
}

// ErrUnknownPrincipal is returned by a PrincipalSource when the user does not exist.
var ErrUnknownPrincipal = errors.New("unknown principal")

// PrincipalSource looks up live users by id.
type PrincipalSource interface {
	PrincipalByID(ctx context.Context, id int64) (Principal, error)
}

// Resolver turns a bearer token into a live Principal.
type Resolver struct {
	Codec  *Codec
	Source PrincipalSource
}

// Resolve validates token and loads its subject. Any identity failure is
// Unauthenticated; storage failures are returned unclassified.
func (r *Resolver) Resolve(ctx context.Context, token string) (Principal, error) {
	claims, err := r.Codec.Validate(token)
	if err != nil {
		return Principal{}, apperr.Unauthenticated("Could not validate credentials")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Principal{}, apperr.Unauthenticated("Invalid token payload")
	}
	p, err := r.Source.PrincipalByID(ctx, id)
	if errors.Is(err, ErrUnknownPrincipal) {
		return Principal{}, apperr.Unauthenticated("Inactive or missing user")
	}
	if err != nil {
		return Principal{}, err
	}
	if !p.Active {
		return Principal{}, apperr.Unauthenticated("Inactive or missing user")
	}
	return p, nil
}

// Predicate decides whether a principal may proceed.
type Predicate func(Principal) bool

// AnyRole allows members of roles. No roles means any authenticated principal.
func AnyRole(roles ...Role) Predicate {
	if len(roles) == 0 {
		return func(Principal) bool { return true }
	}
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(p Principal) bool {
		_, ok := allowed[p.Role]
		return ok
	}
}

// Staff allows manager and root.
var Staff = AnyRole(RoleManager, RoleRoot)

// Require returns Forbidden unless pred allows p.
func Require(p Principal, pred Predicate) error {
	if pred == nil || pred(p) {
		return nil
	}
	return apperr.Forbidden("Not enough permissions")
}
