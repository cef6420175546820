package timesheets

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"logit-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) UpsertEntries(ctx context.Context, orgID, employeeID string, rows []NormalizedRow, now time.Time) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		return UpsertEntries(ctx, tx, orgID, employeeID, rows, now)
	})
}

// UpsertEntries writes rows through ex so callers can share a transaction.
func UpsertEntries(ctx context.Context, ex db.Execer, orgID, employeeID string, rows []NormalizedRow, now time.Time) error {
	const query = `
INSERT INTO timesheet_entries (
  id, org_id, employee_id, work_date, day, project, team, hours_worked,
  work_assigned, work_done, is_leave, is_weekend, leave_marked, month_year, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
ON CONFLICT (org_id, employee_id, work_date, project) DO UPDATE SET
  day = EXCLUDED.day,
  team = EXCLUDED.team,
  hours_worked = EXCLUDED.hours_worked,
  work_assigned = EXCLUDED.work_assigned,
  work_done = EXCLUDED.work_done,
  is_leave = EXCLUDED.is_leave,
  is_weekend = EXCLUDED.is_weekend,
  leave_marked = EXCLUDED.leave_marked,
  month_year = EXCLUDED.month_year,
  updated_at = EXCLUDED.updated_at`
	for _, row := range rows {
		var leaveMarked any
		if row.LeaveMarked != nil {
			leaveMarked = *row.LeaveMarked
		}
		_, err := ex.ExecContext(ctx, query,
			uuid.NewString(),
			orgID,
			employeeID,
			row.Date,
			row.Day,
			row.Project,
			row.Team,
			row.HoursWorked,
			row.WorkAssigned,
			row.WorkDone,
			row.IsLeave,
			row.IsWeekend,
			leaveMarked,
			row.MonthYear,
			now,
		)
		if err != nil {
			return fmt.Errorf("upsert timesheet %s/%s: %w", row.Date, row.Project, err)
		}
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, orgID string, filter Filter) ([]Entry, error) {
	w := db.NewWhere(orgID)
	if filter.EmployeeIDs != nil {
		w.In("employee_id", filter.EmployeeIDs)
	}
	if filter.From != "" {
		w.Add("work_date >= ?", filter.From)
	}
	if filter.To != "" {
		w.Add("work_date <= ?", filter.To)
	}
	if filter.Project != "" {
		w.Add("project = ?", filter.Project)
	}
	if filter.MonthYear != "" {
		w.Add("month_year = ?", filter.MonthYear)
	}
	query := `
SELECT id, org_id, employee_id, to_char(work_date, 'YYYY-MM-DD'), day, project, team, hours_worked,
       work_assigned, work_done, is_leave, is_weekend, leave_marked, month_year, created_at, updated_at
FROM timesheet_entries
WHERE org_id = $1 AND ` + w.SQL() + `
ORDER BY work_date DESC, project, employee_id`

	rows, err := r.DB.QueryContext(ctx, query, w.Args()...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var leaveMarked sql.NullBool
		if err := rows.Scan(
			&e.ID,
			&e.OrgID,
			&e.EmployeeID,
			&e.Row.Date,
			&e.Row.Day,
			&e.Row.Project,
			&e.Row.Team,
			&e.Row.HoursWorked,
			&e.Row.WorkAssigned,
			&e.Row.WorkDone,
			&e.Row.IsLeave,
			&e.Row.IsWeekend,
			&leaveMarked,
			&e.Row.MonthYear,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if leaveMarked.Valid {
			v := leaveMarked.Bool
			e.Row.LeaveMarked = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
