package documents

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, d Document) (Document, error) {
	const query = `
INSERT INTO documents (bundle_id, filename, content_type, s3_key, size_bytes, scanned_status, created_at)
VALUES ($1, $2, $3, $4, NULL, $5, now())
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		d.BundleID,
		d.Filename,
		d.ContentType,
		d.Key,
		string(d.ScannedStatus),
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return Document{}, err
	}
	return d, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (Document, error) {
	const query = `
SELECT id, bundle_id, filename, content_type, s3_key, size_bytes, scanned_status, created_at
FROM documents
WHERE id = $1`
	var d Document
	var size sql.NullInt64
	var scanned string
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.BundleID, &d.Filename, &d.ContentType, &d.Key, &size, &scanned, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if size.Valid {
		d.SizeBytes = &size.Int64
	}
	d.ScannedStatus = ScanStatus(scanned)
	return d, nil
}

func (r *PGRepo) SetSize(ctx context.Context, id int64, size int64) error {
	const query = `UPDATE documents SET size_bytes = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, size)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
