package organizations

import (
	"context"
	"database/sql"
	"errors"

	"logit-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, org Organization) error {
	const query = `
INSERT INTO organizations (id, code, name, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, org.ID, org.Code, org.Name, org.CreatedAt)
	if db.IsUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *PGRepo) GetByCode(ctx context.Context, code string) (Organization, error) {
	const query = `
SELECT id, code, name, created_at
FROM organizations
WHERE upper(code) = upper($1)
LIMIT 1`
	return r.scanOne(ctx, query, code)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Organization, error) {
	const query = `
SELECT id, code, name, created_at
FROM organizations
WHERE id = $1
LIMIT 1`
	return r.scanOne(ctx, query, id)
}

func (r *PGRepo) scanOne(ctx context.Context, query string, arg string) (Organization, error) {
	var org Organization
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&org.ID, &org.Code, &org.Name, &org.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Organization{}, ErrNotFound
		}
		return Organization{}, err
	}
	return org, nil
}
