package applicants

import "time"

type Status string

const (
	StatusDraft    Status = "draft"
	StatusInReview Status = "in_review"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusArchived Status = "archived"
)

type BundleStatus string

const (
	BundleOpen      BundleStatus = "open"
	BundleSubmitted BundleStatus = "submitted"
	BundleInReview  BundleStatus = "in_review"
	BundleApproved  BundleStatus = "approved"
	BundleRejected  BundleStatus = "rejected"
)

// DefaultBundleName is the bundle created alongside every applicant.
const DefaultBundleName = "Registration documents"

type Applicant struct {
	ID                int64     `json:"id"`
	AccountUserID     int64     `json:"account_user_id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	LatestEducation   *string   `json:"latest_education"`
	Status            Status    `json:"status"`
	AssignedManagerID *int64    `json:"assigned_manager_id"`
	CreatedAt         time.Time `json:"created_at"`
}

type Bundle struct {
	ID          int64        `json:"id"`
	ApplicantID int64        `json:"applicant_id"`
	Name        string       `json:"name"`
	Status      BundleStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ListItem is one row of the applicant listing. OwnerEmail is only set
// for staff callers.
type ListItem struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	LatestEducation *string   `json:"latest_education"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	OwnerEmail      *string   `json:"owner_email,omitempty"`
}

type Created struct {
	ApplicantID int64  `json:"applicant_id"`
	BundleID    int64  `json:"bundle_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Status      Status `json:"status"`
}

type BundleRef struct {
	ApplicantID int64 `json:"applicant_id"`
	BundleID    int64 `json:"bundle_id"`
}
