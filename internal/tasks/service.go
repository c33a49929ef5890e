package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/auth"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

type CreateInput struct {
	ApplicantID *int64
	AssigneeID  *int64
	Title       string
	Description string
	DueAt       *time.Time
}

// Create stores a pending task. The assignee defaults to the creator.
func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (Task, error) {
	if err := auth.Require(p, auth.Staff); err != nil {
		return Task{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, apperr.Unprocessable("title is required")
	}
	t := Task{
		ApplicantID: in.ApplicantID,
		AssigneeID:  in.AssigneeID,
		Title:       title,
		Status:      StatusPending,
		DueAt:       in.DueAt,
	}
	if t.AssigneeID == nil {
		self := p.UserID
		t.AssigneeID = &self
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		t.Description = &desc
	}
	return s.Repo.Create(ctx, t)
}

// List filters tasks. Without an assignee filter the caller's own tasks are
// returned.
func (s *Service) List(ctx context.Context, p auth.Principal, f ListFilter) ([]Task, error) {
	if f.AssigneeID == nil {
		self := p.UserID
		f.AssigneeID = &self
	}
	return s.Repo.List(ctx, f)
}

// UpdateStatus overwrites the status. Only the assignee or staff may do so.
func (s *Service) UpdateStatus(ctx context.Context, p auth.Principal, id int64, status string) (Task, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return Task{}, apperr.Unprocessable("new_status is required")
	}
	t, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Task{}, apperr.NotFound("Task not found")
	}
	if err != nil {
		return Task{}, err
	}
	isAssignee := t.AssigneeID != nil && *t.AssigneeID == p.UserID
	if !isAssignee && !p.Role.Staff() {
		return Task{}, apperr.Forbidden("Not allowed")
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

func (s *Service) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.Repo.CountByStatus(ctx, status)
}
