package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"logit-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const employeeColumns = `id, org_id, emp_code, name, designation, created_at`

func (r *PGRepo) Create(ctx context.Context, emp Employee) error {
	const query = `
INSERT INTO employees (id, org_id, emp_code, name, designation, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, emp.ID, emp.OrgID, emp.EmpCode, emp.Name, emp.Designation, emp.CreatedAt)
	switch {
	case db.IsUniqueViolation(err):
		return ErrConflict
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: unknown organization", ErrInvalidInput)
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, orgID, id string) (Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE org_id = $1 AND id = $2 LIMIT 1`
	return scanOne(r.DB.QueryRowContext(ctx, query, orgID, id))
}

func (r *PGRepo) GetByCode(ctx context.Context, orgID, code string) (Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE org_id = $1 AND emp_code = $2 LIMIT 1`
	return scanOne(r.DB.QueryRowContext(ctx, query, orgID, code))
}

func (r *PGRepo) List(ctx context.Context, orgID string, filter Filter) ([]Employee, error) {
	w := db.NewWhere(orgID)
	if filter.Query != "" {
		pattern := db.LikeContains(filter.Query)
		w.Add("(emp_code ILIKE ? OR name ILIKE ?)", pattern, pattern)
	}
	if filter.EmpCode != "" {
		w.Add("emp_code ILIKE ?", db.LikeContains(filter.EmpCode))
	}
	if filter.Name != "" {
		w.Add("name ILIKE ?", db.LikeContains(filter.Name))
	}
	if filter.IDs != nil {
		w.In("id", filter.IDs)
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE org_id = $1 AND ` + w.SQL() + ` ORDER BY emp_code`
	rows, err := r.DB.QueryContext(ctx, query, w.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.OrgID, &emp.EmpCode, &emp.Name, &emp.Designation, &emp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (r *PGRepo) Count(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE org_id = $1`, orgID).Scan(&n)
	return n, err
}

func scanOne(row *sql.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.OrgID, &emp.EmpCode, &emp.Name, &emp.Designation, &emp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return emp, nil
}
