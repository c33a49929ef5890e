package applicants

import (
	"context"
	"database/sql"
	"errors"

	"scholarvalley-api/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) CreateWithBundle(ctx context.Context, a Applicant, bundleName string) (Applicant, Bundle, error) {
	b := Bundle{Name: bundleName, Status: BundleOpen}
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var err error
		if a, err = insertApplicant(ctx, tx, a); err != nil {
			return err
		}
		b.ApplicantID = a.ID
		b, err = insertBundle(ctx, tx, b)
		return err
	})
	if err != nil {
		return Applicant{}, Bundle{}, err
	}
	return a, b, nil
}

func insertApplicant(ctx context.Context, q db.Querier, a Applicant) (Applicant, error) {
	const query = `
INSERT INTO applicants (account_user_id, first_name, last_name, latest_education, status, assigned_manager_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query,
		a.AccountUserID,
		a.FirstName,
		a.LastName,
		nullableString(a.LatestEducation),
		string(a.Status),
		nullableInt64(a.AssignedManagerID),
	).Scan(&a.ID, &a.CreatedAt)
	return a, err
}

func insertBundle(ctx context.Context, q db.Querier, b Bundle) (Bundle, error) {
	const query = `
INSERT INTO document_bundles (applicant_id, name, status, created_at)
VALUES ($1, $2, $3, now())
RETURNING id, created_at`
	err := q.QueryRowContext(ctx, query, b.ApplicantID, b.Name, string(b.Status)).Scan(&b.ID, &b.CreatedAt)
	return b, err
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Applicant, error) {
	const query = `
SELECT id, account_user_id, first_name, last_name, latest_education, status, assigned_manager_id, created_at
FROM applicants
WHERE id = $1`
	a, err := scanApplicant(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Applicant{}, ErrNotFound
	}
	return a, err
}

func (r *PGRepo) List(ctx context.Context, f ListFilter) ([]Applicant, error) {
	const query = `
SELECT id, account_user_id, first_name, last_name, latest_education, status, assigned_manager_id, created_at
FROM applicants
WHERE ($1::bigint IS NULL OR account_user_id = $1)
ORDER BY created_at DESC, id DESC
OFFSET $2
LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, nullableInt64(f.OwnerID), f.Offset, f.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Applicant{}
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) FirstBundle(ctx context.Context, applicantID int64) (Bundle, error) {
	const query = `
SELECT id, applicant_id, name, status, created_at
FROM document_bundles
WHERE applicant_id = $1
ORDER BY id
LIMIT 1`
	return scanBundle(r.DB.QueryRowContext(ctx, query, applicantID))
}

func (r *PGRepo) GetBundle(ctx context.Context, id int64) (Bundle, error) {
	const query = `
SELECT id, applicant_id, name, status, created_at
FROM document_bundles
WHERE id = $1`
	return scanBundle(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) CountByStatus(ctx context.Context, status Status) (int64, error) {
	const query = `SELECT COUNT(*) FROM applicants WHERE status = $1`
	var n int64
	err := r.DB.QueryRowContext(ctx, query, string(status)).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplicant(row scanner) (Applicant, error) {
	var a Applicant
	var education sql.NullString
	var manager sql.NullInt64
	var status string
	if err := row.Scan(&a.ID, &a.AccountUserID, &a.FirstName, &a.LastName, &education, &status, &manager, &a.CreatedAt); err != nil {
		return Applicant{}, err
	}
	if education.Valid {
		a.LatestEducation = &education.String
	}
	if manager.Valid {
		a.AssignedManagerID = &manager.Int64
	}
	a.Status = Status(status)
	return a, nil
}

func scanBundle(row scanner) (Bundle, error) {
	var b Bundle
	var status string
	if err := row.Scan(&b.ID, &b.ApplicantID, &b.Name, &status, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bundle{}, ErrBundleNotFound
		}
		return Bundle{}, err
	}
	b.Status = BundleStatus(status)
	return b, nil
}

func nullableString(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}
