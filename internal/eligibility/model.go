package eligibility

import "time"

// Input is the evaluated request, stored verbatim.
type Input struct {
	ApplicantID int64   `json:"applicant_id"`
	GPA         float64 `json:"gpa"`
	TOEFL       float64 `json:"toefl"`
	Notes       *string `json:"notes"`
}

// Outcome is the stored evaluation result.
type Outcome struct {
	IsEligible        bool      `json:"is_eligible"`
	Recommendations   []string  `json:"recommendations"`
	EvaluatedByUserID int64     `json:"evaluated_by_user_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// Result is one persisted evaluation. Payloads are serialized JSON.
type Result struct {
	ID            int64
	ApplicantID   int64
	InputPayload  string
	ResultPayload string
	CreatedAt     time.Time
}

type Response struct {
	ApplicantID     int64     `json:"applicant_id"`
	IsEligible      bool      `json:"is_eligible"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}
