package messages

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const messageColumns = `id, applicant_id, sender_id, recipient_id, body, created_at, read_at`

func (r *PGRepo) Create(ctx context.Context, m Message) (Message, error) {
	const query = `
INSERT INTO messages (applicant_id, sender_id, recipient_id, body, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		nullableInt64(m.ApplicantID),
		m.SenderID,
		nullableInt64(m.RecipientID),
		m.Body,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	m, err := scanMessage(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return m, err
}

func (r *PGRepo) ListForUser(ctx context.Context, userID int64, offset, limit int) ([]Message, error) {
	query := `SELECT ` + messageColumns + `
FROM messages
WHERE sender_id = $1 OR recipient_id = $1
ORDER BY created_at DESC, id DESC
OFFSET $2
LIMIT $3`
	return r.list(ctx, query, userID, offset, limit)
}

func (r *PGRepo) ListForApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]Message, error) {
	query := `SELECT ` + messageColumns + `
FROM messages
WHERE applicant_id = $1
ORDER BY created_at DESC, id DESC
OFFSET $2
LIMIT $3`
	return r.list(ctx, query, applicantID, offset, limit)
}

func (r *PGRepo) MarkRead(ctx context.Context, id int64, at time.Time) (Message, error) {
	query := `
UPDATE messages SET read_at = COALESCE(read_at, $2)
WHERE id = $1
RETURNING ` + messageColumns
	m, err := scanMessage(r.DB.QueryRowContext(ctx, query, id, at))
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, ErrNotFound
	}
	return m, err
}

func (r *PGRepo) list(ctx context.Context, query string, id int64, offset, limit int) ([]Message, error) {
	rows, err := r.DB.QueryContext(ctx, query, id, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (Message, error) {
	var m Message
	var applicantID, recipientID sql.NullInt64
	var readAt sql.NullTime
	if err := row.Scan(&m.ID, &applicantID, &m.SenderID, &recipientID, &m.Body, &m.CreatedAt, &readAt); err != nil {
		return Message{}, err
	}
	if applicantID.Valid {
		m.ApplicantID = &applicantID.Int64
	}
	if recipientID.Valid {
		m.RecipientID = &recipientID.Int64
	}
	if readAt.Valid {
		m.ReadAt = &readAt.Time
	}
	return m, nil
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}
