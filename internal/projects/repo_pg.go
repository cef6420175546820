package projects

import (
	"context"
	"database/sql"
	"fmt"

	"logit-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, p Project) error {
	const query = `
INSERT INTO projects (id, org_id, name, client_name, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, p.ID, p.OrgID, p.Name, p.ClientName, string(p.Status), p.CreatedAt)
	switch {
	case db.IsUniqueViolation(err):
		return ErrConflict
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: unknown organization", ErrInvalidInput)
	}
	return err
}

func (r *PGRepo) List(ctx context.Context, orgID string) ([]Project, error) {
	const query = `
SELECT id, org_id, name, client_name, status, created_at
FROM projects
WHERE org_id = $1
ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		var status string
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.ClientName, &status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Status = Status(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByStatus(ctx context.Context, orgID string) (StatusCounts, error) {
	const query = `
SELECT status, COUNT(*)
FROM projects
WHERE org_id = $1
GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, query, orgID)
	if err != nil {
		return StatusCounts{}, err
	}
	defer rows.Close()

	var counts StatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return StatusCounts{}, err
		}
		counts.add(Status(status), n)
	}
	return counts, rows.Err()
}
