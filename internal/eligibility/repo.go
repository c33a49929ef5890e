package eligibility

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

// Repo is append-only.
type Repo interface {
	Create(ctx context.Context, r Result) (Result, error)
}

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, res Result) (Result, error) {
	const query = `
INSERT INTO eligibility_results (applicant_id, input_payload, result_payload, created_at)
VALUES ($1, $2, $3, now())
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, res.ApplicantID, res.InputPayload, res.ResultPayload).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

type MemoryRepo struct {
	mu      sync.RWMutex
	results []Result
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, res Result) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ID = int64(len(r.results) + 1)
	res.CreatedAt = time.Now().UTC()
	r.results = append(r.results, res)
	return res, nil
}

// Results returns a copy of every stored evaluation.
func (r *MemoryRepo) Results() []Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}
