package health

import (
	"context"
	"errors"
	"testing"
)

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

func TestStatus(t *testing.T) {
	if got := NewService(nil).Status(context.Background()); got["status"] != "ok" || len(got) != 1 {
		t.Fatalf("unexpected status without db %v", got)
	}
	if got := NewService(stubPinger{}).Status(context.Background()); got["database"] != "ok" {
		t.Fatalf("unexpected status %v", got)
	}
	got := NewService(stubPinger{err: errors.New("connection refused")}).Status(context.Background())
	if got["status"] != "ok" || got["database"] != "unavailable" {
		t.Fatalf("unexpected status %v", got)
	}
}
