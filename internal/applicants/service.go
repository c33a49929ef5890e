package applicants

import (
	"context"
	"errors"
	"strings"

	"scholarvalley-api/internal/shared/apperr"
	"scholarvalley-api/internal/shared/auth"
)

// OwnerDirectory resolves account emails for staff listings.
type OwnerDirectory interface {
	EmailsByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type Service struct {
	Repo   Repo
	Owners OwnerDirectory
}

func NewService(repo Repo, owners OwnerDirectory) *Service {
	return &Service{Repo: repo, Owners: owners}
}

type CreateInput struct {
	FirstName       string
	LastName        string
	LatestEducation string
}

// Create registers an applicant owned by p together with its default bundle.
func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (Created, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return Created{}, apperr.Unprocessable("first_name and last_name are required")
	}
	a := Applicant{
		AccountUserID: p.UserID,
		FirstName:     first,
		LastName:      last,
		Status:        StatusDraft,
	}
	if edu := strings.TrimSpace(in.LatestEducation); edu != "" {
		a.LatestEducation = &edu
	}
	a, b, err := s.Repo.CreateWithBundle(ctx, a, DefaultBundleName)
	if err != nil {
		return Created{}, err
	}
	return Created{
		ApplicantID: a.ID,
		BundleID:    b.ID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Status:      a.Status,
	}, nil
}

// List returns the applicants visible to p. Clients see their own; staff
// see all, annotated with the owner's email.
func (s *Service) List(ctx context.Context, p auth.Principal, offset, limit int) ([]ListItem, error) {
	f := ListFilter{Offset: offset, Limit: limit}
	staff := p.Role.Staff()
	if !staff {
		owner := p.UserID
		f.OwnerID = &owner
	}
	rows, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var emails map[int64]string
	if staff && len(rows) > 0 && s.Owners != nil {
		ids := make([]int64, 0, len(rows))
		seen := make(map[int64]struct{}, len(rows))
		for _, a := range rows {
			if _, ok := seen[a.AccountUserID]; ok {
				continue
			}
			seen[a.AccountUserID] = struct{}{}
			ids = append(ids, a.AccountUserID)
		}
		emails, err = s.Owners.EmailsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]ListItem, 0, len(rows))
	for _, a := range rows {
		item := ListItem{
			ID:              a.ID,
			FirstName:       a.FirstName,
			LastName:        a.LastName,
			LatestEducation: a.LatestEducation,
			Status:          a.Status,
			CreatedAt:       a.CreatedAt,
		}
		if staff {
			if email, ok := emails[a.AccountUserID]; ok {
				item.OwnerEmail = &email
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// Get loads an applicant for p. Absent applicants are NotFound; a client
// reaching another account's applicant is Forbidden.
func (s *Service) Get(ctx context.Context, p auth.Principal, id int64) (Applicant, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return Applicant{}, err
	}
	if err := auth.Authorize(p, a.AccountUserID, auth.ApplicantRead); err != nil {
		return Applicant{}, err
	}
	return a, nil
}

// Bundle returns the applicant's first bundle. Only the owning account
// may reach it; everyone else gets NotFound.
func (s *Service) Bundle(ctx context.Context, p auth.Principal, applicantID int64) (BundleRef, error) {
	a, err := s.load(ctx, applicantID)
	if err != nil {
		return BundleRef{}, err
	}
	if err := auth.Authorize(p, a.AccountUserID, auth.ApplicantBundle); err != nil {
		return BundleRef{}, err
	}
	b, err := s.Repo.FirstBundle(ctx, a.ID)
	if errors.Is(err, ErrBundleNotFound) {
		return BundleRef{}, apperr.NotFound("No bundle found")
	}
	if err != nil {
		return BundleRef{}, err
	}
	return BundleRef{ApplicantID: a.ID, BundleID: b.ID}, nil
}

// AuthorizeBundle walks bundle to applicant and requires p to own it.
// Missing and foreign bundles are indistinguishable.
func (s *Service) AuthorizeBundle(ctx context.Context, p auth.Principal, bundleID int64) (Bundle, error) {
	b, err := s.Repo.GetBundle(ctx, bundleID)
	if errors.Is(err, ErrBundleNotFound) {
		return Bundle{}, apperr.NotFound("Bundle not found")
	}
	if err != nil {
		return Bundle{}, err
	}
	a, err := s.Repo.GetByID(ctx, b.ApplicantID)
	if errors.Is(err, ErrNotFound) {
		return Bundle{}, apperr.NotFound("Bundle not found")
	}
	if err != nil {
		return Bundle{}, err
	}
	if err := auth.Authorize(p, a.AccountUserID, auth.BundleAccess); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func (s *Service) CountByStatus(ctx context.Context, status Status) (int64, error) {
	return s.Repo.CountByStatus(ctx, status)
}

func (s *Service) load(ctx context.Context, id int64) (Applicant, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Applicant{}, apperr.NotFound("Applicant not found")
	}
	return a, err
}
