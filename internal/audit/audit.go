package audit

import (
	"context"
	"time"
)

// Entry is one append-only audit log row.
type Entry struct {
	ID           int64          `json:"id"`
	UserID       *int64         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Metadata     map[string]any `json:"extra_data"`
	IPAddress    string         `json:"ip_address"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Recorder appends audit entries. Record returns only after the entry is
// durable; callers treat a failure as a failure of the triggering write.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Actor returns a pointer to id for Entry.UserID.
func Actor(id int64) *int64 {
	return &id
}
