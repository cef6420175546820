package uploads

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const uploadColumns = `id, org_id, file_name, storage_key, mime_type, size_bytes, created_at`

// Create inserts a new upload record.
func (r *PGRepo) Create(ctx context.Context, u Upload) error {
	const query = `
INSERT INTO uploads (id, org_id, file_name, storage_key, mime_type, size_bytes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query, u.ID, u.OrgID, u.FileName, u.StorageKey, u.MimeType, u.SizeBytes, u.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, orgID, id string) (Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE org_id = $1 AND id = $2 LIMIT 1`
	var u Upload
	err := r.DB.QueryRowContext(ctx, query, orgID, id).Scan(
		&u.ID, &u.OrgID, &u.FileName, &u.StorageKey, &u.MimeType, &u.SizeBytes, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Upload{}, ErrNotFound
		}
		return Upload{}, err
	}
	return u, nil
}

// List returns uploads newest-first.
func (r *PGRepo) List(ctx context.Context, orgID string, limit, offset int) ([]Upload, error) {
	limit, offset = clampPage(limit, offset)
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.ID, &u.OrgID, &u.FileName, &u.StorageKey, &u.MimeType, &u.SizeBytes, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
