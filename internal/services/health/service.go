package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports liveness and, when a database is wired, its reachability.
type Service struct {
	db Pinger
}

// NewService constructs a health service. db may be nil.
func NewService(db Pinger) *Service {
	return &Service{db: db}
}

// Status returns the health payload. The process is live whenever it can
// answer; database trouble is reported but does not fail the check.
func (s *Service) Status(ctx context.Context) map[string]string {
	out := map[string]string{"status": "ok"}
	if s == nil || s.db == nil {
		return out
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		out["database"] = "unavailable"
	} else {
		out["database"] = "ok"
	}
	return out
}
