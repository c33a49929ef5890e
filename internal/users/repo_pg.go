package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"scholarvalley-api/internal/shared/auth"
)

const uniqueViolation = "23505"

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, u User) (User, error) {
	const query = `
INSERT INTO users (email, full_name, hashed_password, role, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email,
		nullableString(u.FullName),
		u.HashedPassword,
		string(u.Role),
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (User, error) {
	const query = `
SELECT id, email, full_name, hashed_password, role, is_active, created_at
FROM users
WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, full_name, hashed_password, role, is_active, created_at
FROM users
WHERE email = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) EmailsByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const query = `SELECT id, email FROM users WHERE id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, err
		}
		out[id] = email
	}
	return out, rows.Err()
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var fullName sql.NullString
	var role string
	err := row.Scan(&u.ID, &u.Email, &fullName, &u.HashedPassword, &role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	u.Role = roleOf(role)
	return u, nil
}

// roleOf maps stored role text; anything unknown is treated as client.
func roleOf(raw string) auth.Role {
	r := auth.Role(raw)
	if !r.Valid() {
		return auth.RoleClient
	}
	return r
}

func nullableString(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}
