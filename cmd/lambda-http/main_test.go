package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/telemetry"
)

func TestProxyRetriesFailedBuild(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Cleanup(telemetry.SetOutput(io.Discard))

	calls := 0
	p := &proxy{build: func() (*gin.Engine, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("database unreachable")
		}
		r := gin.New()
		r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
		return r, nil
	}}

	req := events.APIGatewayV2HTTPRequest{
		RawPath: "/health",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: http.MethodGet, Path: "/health"},
		},
	}

	resp, err := p.handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 on failed build, got %d", resp.StatusCode)
	}

	resp, err = p.handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after retry, got %d: %s", resp.StatusCode, resp.Body)
	}

	if _, err := p.handle(context.Background(), req); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected router to be built twice, got %d", calls)
	}
}
