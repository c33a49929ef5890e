package applicants

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("applicant not found")
	ErrBundleNotFound = errors.New("bundle not found")
)

type ListFilter struct {
	// OwnerID restricts results to one account when set.
	OwnerID *int64
	Offset  int
	Limit   int
}

type Repo interface {
	// CreateWithBundle inserts the applicant and its bundle atomically.
	CreateWithBundle(ctx context.Context, a Applicant, bundleName string) (Applicant, Bundle, error)
	GetByID(ctx context.Context, id int64) (Applicant, error)
	// List returns applicants newest first.
	List(ctx context.Context, f ListFilter) ([]Applicant, error)
	// FirstBundle returns the oldest bundle of the applicant.
	FirstBundle(ctx context.Context, applicantID int64) (Bundle, error)
	GetBundle(ctx context.Context, id int64) (Bundle, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
