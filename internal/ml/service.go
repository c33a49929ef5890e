package ml

import (
	"context"
	"strings"

	"scholarvalley-api/internal/shared/auth"
)

const (
	noConsentMessage   = "No ML recommendation available (consent not granted)."
	placeholderMessage = "ML recommendation service is not yet implemented."
	placeholderModel   = "planned-v1"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

type ConsentInput struct {
	ApplicantID  *int64
	ConsentGiven bool
	Version      string
}

func (s *Service) SetConsent(ctx context.Context, p auth.Principal, in ConsentInput) error {
	version := strings.TrimSpace(in.Version)
	if version == "" {
		version = DefaultConsentVersion
	}
	return s.Repo.Upsert(ctx, Consent{
		UserID:       p.UserID,
		ApplicantID:  in.ApplicantID,
		ConsentGiven: in.ConsentGiven,
		Version:      version,
	})
}

// Recommend is gated on consent. No model is wired yet, so consenting
// callers receive a fixed placeholder.
func (s *Service) Recommend(ctx context.Context, p auth.Principal, applicantID int64) (Recommendation, error) {
	ok, err := s.Repo.HasConsent(ctx, p.UserID, &applicantID)
	if err != nil {
		return Recommendation{}, err
	}
	if !ok {
		return Recommendation{ApplicantID: applicantID, Recommendation: noConsentMessage, ModelVersion: "none"}, nil
	}
	return Recommendation{ApplicantID: applicantID, Recommendation: placeholderMessage, ModelVersion: placeholderModel}, nil
}
