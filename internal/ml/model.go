package ml

import "time"

const DefaultConsentVersion = "v1"

// Consent is keyed by user, applicant (possibly none) and version.
type Consent struct {
	ID           int64
	UserID       int64
	ApplicantID  *int64
	ConsentGiven bool
	Version      string
	ConsentedAt  time.Time
	RevokedAt    *time.Time
}

type Recommendation struct {
	ApplicantID    int64  `json:"applicant_id"`
	Recommendation string `json:"recommendation"`
	ModelVersion   string `json:"model_version"`
}
