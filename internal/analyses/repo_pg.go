package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"logit-backend/internal/shared/storage/db"
	"logit-backend/internal/timesheets"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const summaryColumns = `id, org_id, employee_id, month_year, version, summary, rating, json_data, upload_id, provider, model, created_at`

// Create inserts the next version of a summary and upserts its rows in one transaction.
func (r *PGRepo) Create(ctx context.Context, s Summary) (Summary, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	payload, err := json.Marshal(nonNilRows(s.JSONData))
	if err != nil {
		return Summary{}, fmt.Errorf("%w: encode json_data: %v", ErrStorage, err)
	}

	err = db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		// Serialize version assignment per employee and period.
		lockKey := s.OrgID + "|" + s.EmployeeID + "|" + s.MonthYear
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `
SELECT COALESCE(MAX(version), 0) + 1
FROM summaries
WHERE org_id = $1 AND employee_id = $2 AND month_year = $3`,
			s.OrgID, s.EmployeeID, s.MonthYear,
		).Scan(&s.Version); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO summaries (`+summaryColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			s.ID,
			s.OrgID,
			s.EmployeeID,
			s.MonthYear,
			s.Version,
			s.Summary,
			s.Rating,
			payload,
			s.UploadID,
			s.Provider,
			s.Model,
			s.CreatedAt,
		); err != nil {
			return err
		}
		return timesheets.UpsertEntries(ctx, tx, s.OrgID, s.EmployeeID, s.JSONData, s.CreatedAt)
	})
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return s, nil
}

func (r *PGRepo) GetByID(ctx context.Context, orgID, id string) (Summary, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+summaryColumns+` FROM summaries WHERE org_id = $1 AND id = $2`, orgID, id)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, ErrNotFound
	}
	if err != nil {
		return Summary{}, err
	}
	return s, nil
}

func (r *PGRepo) List(ctx context.Context, orgID string, filter Filter) ([]Summary, error) {
	w := db.NewWhere(orgID)
	if filter.EmployeeIDs != nil {
		w.In("employee_id", filter.EmployeeIDs)
	}
	if filter.MonthYear != "" {
		w.Add("month_year = ?", filter.MonthYear)
	}
	if filter.FromMonth != "" {
		w.Add("month_year >= ?", filter.FromMonth)
	}
	if filter.ToMonth != "" {
		w.Add("month_year <= ?", filter.ToMonth)
	}

	var query string
	if filter.Latest {
		query = `
SELECT ` + summaryColumns + ` FROM (
  SELECT DISTINCT ON (employee_id, month_year) ` + summaryColumns + `
  FROM summaries
  WHERE org_id = $1 AND ` + w.SQL() + `
  ORDER BY employee_id, month_year, version DESC
) latest`
		if filter.MinRating != nil {
			query += `
WHERE rating >= ` + w.Bind(*filter.MinRating)
		}
		query += `
ORDER BY created_at DESC, version DESC, id`
	} else {
		if filter.MinRating != nil {
			w.Add("rating >= ?", *filter.MinRating)
		}
		query = `
SELECT ` + summaryColumns + `
FROM summaries
WHERE org_id = $1 AND ` + w.SQL() + `
ORDER BY created_at DESC, version DESC, id`
	}

	rows, err := r.DB.QueryContext(ctx, query, w.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (Summary, error) {
	var s Summary
	var payload []byte
	if err := row.Scan(
		&s.ID,
		&s.OrgID,
		&s.EmployeeID,
		&s.MonthYear,
		&s.Version,
		&s.Summary,
		&s.Rating,
		&payload,
		&s.UploadID,
		&s.Provider,
		&s.Model,
		&s.CreatedAt,
	); err != nil {
		return Summary{}, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &s.JSONData); err != nil {
			return Summary{}, fmt.Errorf("decode json_data: %w", err)
		}
	}
	return s, nil
}

func nonNilRows(rows []timesheets.NormalizedRow) []timesheets.NormalizedRow {
	if rows == nil {
		return []timesheets.NormalizedRow{}
	}
	return rows
}
