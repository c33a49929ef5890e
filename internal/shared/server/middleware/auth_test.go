package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/telemetry"
)

type stubPrincipals map[int64]auth.Principal

func (s stubPrincipals) PrincipalByID(_ context.Context, id int64) (auth.Principal, error) {
	p, ok := s[id]
	if !ok {
		return auth.Principal{}, auth.ErrUnknownPrincipal
	}
	return p, nil
}

func newTestResolver(t *testing.T) (*auth.Resolver, *auth.Codec) {
	t.Helper()
	codec, err := auth.NewCodec("middleware-secret", "HS256")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return &auth.Resolver{Codec: codec, Source: stubPrincipals{
		1: {UserID: 1, Email: "client@x.com", Role: auth.RoleClient, Active: true},
		2: {UserID: 2, Email: "manager@x.com", Role: auth.RoleManager, Active: true},
		3: {UserID: 3, Email: "gone@x.com", Role: auth.RoleClient, Active: false},
	}}, codec
}

func TestAuthenticateAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver, _ := newTestResolver(t)
	router := gin.New()
	router.Use(Authenticate(resolver))
	router.OPTIONS("/api/applicants", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/applicants", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(io.Discard)
	defer restore()

	resolver, codec := newTestResolver(t)
	inactive, _ := codec.Issue("3", auth.RoleClient, time.Hour)
	expired, _ := codec.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue("1", auth.RoleClient, time.Hour)

	router := gin.New()
	router.Use(Authenticate(resolver))
	router.GET("/api/applicants", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	cases := map[string]string{
		"missing":  "",
		"scheme":   "Basic abc",
		"garbage":  "Bearer nope",
		"expired":  "Bearer " + expired,
		"inactive": "Bearer " + inactive,
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/applicants", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.Code)
		}
	}
}

func TestAuthenticateStoresPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver, codec := newTestResolver(t)
	token, _ := codec.Issue("2", auth.RoleManager, time.Hour)

	router := gin.New()
	router.Use(Authenticate(resolver))
	router.GET("/me", func(c *gin.Context) {
		p, ok := PrincipalFromContext(c)
		if !ok {
			t.Errorf("principal missing")
		}
		c.JSON(http.StatusOK, gin.H{"email": p.Email, "user_id": UserIDFromContext(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"email":"manager@x.com","user_id":"2"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(io.Discard)
	defer restore()

	resolver, codec := newTestResolver(t)
	clientToken, _ := codec.Issue("1", auth.RoleClient, time.Hour)
	managerToken, _ := codec.Issue("2", auth.RoleManager, time.Hour)

	router := gin.New()
	router.Use(Authenticate(resolver))
	router.GET("/api/dashboard/summary", RequireRoles(auth.RoleManager, auth.RoleRoot), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for token, want := range map[string]int{clientToken: http.StatusForbidden, managerToken: http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("expected %d, got %d", want, resp.Code)
		}
	}
}
