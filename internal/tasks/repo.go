package tasks

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("task not found")

type ListFilter struct {
	AssigneeID  *int64
	ApplicantID *int64
	Status      string
	Offset      int
	Limit       int
}

type Repo interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id int64) (Task, error)
	// List returns matching tasks newest first.
	List(ctx context.Context, f ListFilter) ([]Task, error)
	UpdateStatus(ctx context.Context, id int64, status string) (Task, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}
