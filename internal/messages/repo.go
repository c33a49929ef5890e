package messages

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("message not found")

type Repo interface {
	Create(ctx context.Context, m Message) (Message, error)
	GetByID(ctx context.Context, id int64) (Message, error)
	// ListForUser returns messages the user sent or received, newest first.
	ListForUser(ctx context.Context, userID int64, offset, limit int) ([]Message, error)
	// ListForApplicant returns every message attached to the applicant, newest first.
	ListForApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]Message, error)
	// MarkRead sets read_at to at unless it is already set.
	MarkRead(ctx context.Context, id int64, at time.Time) (Message, error)
}
