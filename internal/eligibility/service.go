package eligibility

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"scholarvalley-api/internal/applicants"
	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/metrics"
)

// ApplicantReader loads an applicant the caller may read.
type ApplicantReader interface {
	Get(ctx context.Context, p auth.Principal, id int64) (applicants.Applicant, error)
}

type Service struct {
	Repo       Repo
	Applicants ApplicantReader
	Metrics    metrics.Recorder
	now        func() time.Time
}

func NewService(repo Repo, apps ApplicantReader) *Service {
	return &Service{Repo: repo, Applicants: apps, Metrics: metrics.Noop{}, now: time.Now}
}

// Check evaluates in and persists the evaluation whatever the outcome.
func (s *Service) Check(ctx context.Context, p auth.Principal, in Input) (Response, error) {
	if invalidScore(in.GPA) || invalidScore(in.TOEFL) {
		return Response{}, apperr.Unprocessable("gpa and toefl must be non-negative numbers")
	}
	if _, err := s.Applicants.Get(ctx, p, in.ApplicantID); err != nil {
		return Response{}, err
	}

	eligible, recs := Evaluate(in.GPA, in.TOEFL)
	evaluatedAt := s.now().UTC()
	inputPayload, err := json.Marshal(in)
	if err != nil {
		return Response{}, apperr.Internal("failed to encode eligibility input", err)
	}
	resultPayload, err := json.Marshal(Outcome{
		IsEligible:        eligible,
		Recommendations:   recs,
		EvaluatedByUserID: p.UserID,
		CreatedAt:         evaluatedAt,
	})
	if err != nil {
		return Response{}, apperr.Internal("failed to encode eligibility result", err)
	}

	if _, err := s.Repo.Create(ctx, Result{
		ApplicantID:   in.ApplicantID,
		InputPayload:  string(inputPayload),
		ResultPayload: string(resultPayload),
	}); err != nil {
		return Response{}, err
	}
	s.Metrics.EligibilityCheck(eligible)

	return Response{
		ApplicantID:     in.ApplicantID,
		IsEligible:      eligible,
		Recommendations: recs,
		CreatedAt:       evaluatedAt,
	}, nil
}

func invalidScore(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}
