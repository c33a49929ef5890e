package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/server/respond"
)

const (
	principalKey = "principal"
	userIDKey    = "userId"
	userRoleKey  = "userRole"
)

// Authenticate resolves the bearer token to a live user and stores the
// principal in context. Every failure is a 401.
func Authenticate(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authenticated", nil)
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			respond.FromError(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Set(userIDKey, strconv.FormatInt(principal.UserID, 10))
		c.Set(userRoleKey, string(principal.Role))
		c.Next()
	}
}

// RequireRoles gates the handler chain on the resolved principal's role.
// With no roles any authenticated principal passes.
func RequireRoles(roles ...auth.Role) gin.HandlerFunc {
	return Require(auth.AnyRole(roles...))
}

// Require gates the handler chain on pred.
func Require(pred auth.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authenticated", nil)
			return
		}
		if err := auth.Require(principal, pred); err != nil {
			respond.FromError(c, err)
			return
		}
		c.Next()
	}
}

// PrincipalFromContext fetches the principal set by Authenticate.
func PrincipalFromContext(c *gin.Context) (auth.Principal, bool) {
	if c == nil {
		return auth.Principal{}, false
	}
	val, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := val.(auth.Principal)
	return p, ok
}

// UserIDFromContext returns the caller id as a string, or "".
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
