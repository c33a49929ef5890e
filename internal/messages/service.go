package messages

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
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

type SendInput struct {
	ApplicantID *int64
	RecipientID *int64
	Body        string
}

func (s *Service) Send(ctx context.Context, p auth.Principal, in SendInput) (Message, error) {
	if strings.TrimSpace(in.Body) == "" {
		return Message{}, apperr.Unprocessable("body is required")
	}
	return s.Repo.Create(ctx, Message{
		ApplicantID: in.ApplicantID,
		SenderID:    p.UserID,
		RecipientID: in.RecipientID,
		Body:        in.Body,
	})
}

// List returns the caller's inbox and outbox, or with applicantID the
// whole thread for that applicant.
//
// The applicant thread is not filtered by sender or recipient.
func (s *Service) List(ctx context.Context, p auth.Principal, applicantID *int64, offset, limit int) ([]Message, error) {
	if applicantID != nil {
		return s.Repo.ListForApplicant(ctx, *applicantID, offset, limit)
	}
	return s.Repo.ListForUser(ctx, p.UserID, offset, limit)
}

// MarkRead stamps read_at once. Only the recipient may do it.
func (s *Service) MarkRead(ctx context.Context, p auth.Principal, id int64) (Message, error) {
	m, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Message{}, apperr.NotFound("Message not found")
	}
	if err != nil {
		return Message{}, err
	}
	if m.RecipientID == nil || *m.RecipientID != p.UserID {
		return Message{}, apperr.Forbidden("Not allowed")
	}
	return s.Repo.MarkRead(ctx, id, s.now().UTC())
}
