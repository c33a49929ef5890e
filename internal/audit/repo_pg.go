package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Record(ctx context.Context, e Entry) error {
	var extra any
	if len(e.Metadata) > 0 {
		payload, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		extra = string(payload)
	}
	const query = `
INSERT INTO audit_logs (user_id, action, resource_type, resource_id, extra_data, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.DB.ExecContext(ctx, query,
		nullableInt64(e.UserID),
		e.Action,
		nullableString(e.ResourceType),
		nullableString(e.ResourceID),
		extra,
		nullableString(e.IPAddress),
	)
	return err
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
