package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/applicants"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/telemetry"
)

type fakeApplicants struct {
	counts map[applicants.Status]int64
	err    error
}

func (f fakeApplicants) CountByStatus(_ context.Context, status applicants.Status) (int64, error) {
	return f.counts[status], f.err
}

type fakeTasks map[string]int64

func (f fakeTasks) CountByStatus(_ context.Context, status string) (int64, error) {
	return f[status], nil
}

type fakeRevenue int64

func (f fakeRevenue) Revenue(context.Context) (int64, error) { return int64(f), nil }

type principals map[int64]auth.Principal

func (p principals) PrincipalByID(_ context.Context, id int64) (auth.Principal, error) {
	if got, ok := p[id]; ok {
		return got, nil
	}
	return auth.Principal{}, auth.ErrUnknownPrincipal
}

func newRouter(t *testing.T, svc *Service) (*gin.Engine, *auth.Codec) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Cleanup(telemetry.SetOutput(io.Discard))

	codec, err := auth.NewCodec("dashboard-secret", "HS256")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	resolver := &auth.Resolver{Codec: codec, Source: principals{
		1: {UserID: 1, Role: auth.RoleClient, Active: true},
		2: {UserID: 2, Role: auth.RoleManager, Active: true},
	}}
	r := gin.New()
	api := r.Group("/api", middleware.Authenticate(resolver))
	NewHandler(svc).RegisterRoutes(api)
	return r, codec
}

func get(t *testing.T, r *gin.Engine, codec *auth.Codec, userID string, role auth.Role) *httptest.ResponseRecorder {
	t.Helper()
	token, err := codec.Issue(userID, role, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSummaryForStaff(t *testing.T) {
	svc := NewService(
		fakeApplicants{counts: map[applicants.Status]int64{applicants.StatusAccepted: 3}},
		fakeTasks{"pending": 4},
		fakeRevenue(12500),
	)
	r, codec := newRouter(t, svc)

	resp := get(t, r, codec, "2", auth.RoleManager)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got Summary
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (Summary{AcceptedClients: 3, PendingTasks: 4, TotalRevenueCents: 12500}) {
		t.Fatalf("unexpected summary %+v", got)
	}

	if resp := get(t, r, codec, "1", auth.RoleClient); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for client, got %d", resp.Code)
	}
}

func TestSummaryCounterFailureIsScrubbed500(t *testing.T) {
	svc := NewService(
		fakeApplicants{err: errors.New("dial tcp 10.0.0.5:5432: password=hunter2")},
		fakeTasks{},
		fakeRevenue(0),
	)
	r, codec := newRouter(t, svc)

	resp := get(t, r, codec, "2", auth.RoleManager)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "internal" {
		t.Fatalf("expected internal code, got %q", body.Error.Code)
	}
	if strings.Contains(resp.Body.String(), "hunter2") {
		t.Fatalf("response leaked the cause: %s", resp.Body.String())
	}
}
