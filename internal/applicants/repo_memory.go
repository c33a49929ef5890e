package applicants

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu           sync.RWMutex
	nextID       int64
	nextBundleID int64
	applicants   map[int64]Applicant
	bundles      map[int64]Bundle
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		applicants: make(map[int64]Applicant),
		bundles:    make(map[int64]Bundle),
	}
}

func (r *MemoryRepo) CreateWithBundle(ctx context.Context, a Applicant, bundleName string) (Applicant, Bundle, error) {
	if err := ctx.Err(); err != nil {
		return Applicant{}, Bundle{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()

	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = now
	r.applicants[a.ID] = a

	r.nextBundleID++
	b := Bundle{
		ID:          r.nextBundleID,
		ApplicantID: a.ID,
		Name:        bundleName,
		Status:      BundleOpen,
		CreatedAt:   now,
	}
	r.bundles[b.ID] = b
	return a, b, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Applicant, error) {
	if err := ctx.Err(); err != nil {
		return Applicant{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.applicants[id]
	if !ok {
		return Applicant{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]Applicant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Applicant, 0, len(r.applicants))
	for _, a := range r.applicants {
		if f.OwnerID != nil && a.AccountUserID != *f.OwnerID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return window(out, f.Offset, f.Limit), nil
}

func (r *MemoryRepo) FirstBundle(ctx context.Context, applicantID int64) (Bundle, error) {
	if err := ctx.Err(); err != nil {
		return Bundle{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var first Bundle
	found := false
	for _, b := range r.bundles {
		if b.ApplicantID != applicantID {
			continue
		}
		if !found || b.ID < first.ID {
			first = b
			found = true
		}
	}
	if !found {
		return Bundle{}, ErrBundleNotFound
	}
	return first, nil
}

func (r *MemoryRepo) GetBundle(ctx context.Context, id int64) (Bundle, error) {
	if err := ctx.Err(); err != nil {
		return Bundle{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bundles[id]
	if !ok {
		return Bundle{}, ErrBundleNotFound
	}
	return b, nil
}

func (r *MemoryRepo) CountByStatus(ctx context.Context, status Status) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, a := range r.applicants {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

// SetStatus overwrites an applicant's status. No endpoint moves applicants
// out of draft; this stands in for a staff edit at the storage layer.
func (r *MemoryRepo) SetStatus(id int64, status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.applicants[id]; ok {
		a.Status = status
		r.applicants[id] = a
	}
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	if offset < 0 {
		offset = 0
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
