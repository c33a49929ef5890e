package tasks

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const taskColumns = `id, applicant_id, assignee_id, title, description, status, due_at, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, t Task) (Task, error) {
	const query = `
INSERT INTO tasks (applicant_id, assignee_id, title, description, status, due_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
RETURNING id, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		nullableInt64(t.ApplicantID),
		nullableInt64(t.AssigneeID),
		t.Title,
		nullableString(t.Description),
		t.Status,
		nullableTime(t.DueAt),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (r *PGRepo) List(ctx context.Context, f ListFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + `
FROM tasks
WHERE ($1::bigint IS NULL OR assignee_id = $1)
  AND ($2::bigint IS NULL OR applicant_id = $2)
  AND ($3 = '' OR status = $3)
ORDER BY created_at DESC, id DESC
OFFSET $4
LIMIT $5`
	rows, err := r.DB.QueryContext(ctx, query,
		nullableInt64(f.AssigneeID),
		nullableInt64(f.ApplicantID),
		f.Status,
		f.Offset,
		f.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id int64, status string) (Task, error) {
	query := `
UPDATE tasks SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + taskColumns
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, id, status))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (r *PGRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	const query = `SELECT COUNT(*) FROM tasks WHERE status = $1`
	var n int64
	err := r.DB.QueryRowContext(ctx, query, status).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (Task, error) {
	var t Task
	var applicantID, assigneeID sql.NullInt64
	var description sql.NullString
	var dueAt sql.NullTime
	if err := row.Scan(&t.ID, &applicantID, &assigneeID, &t.Title, &description, &t.Status, &dueAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Task{}, err
	}
	if applicantID.Valid {
		t.ApplicantID = &applicantID.Int64
	}
	if assigneeID.Valid {
		t.AssigneeID = &assigneeID.Int64
	}
	if description.Valid {
		t.Description = &description.String
	}
	if dueAt.Valid {
		t.DueAt = &dueAt.Time
	}
	return t, nil
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableString(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
