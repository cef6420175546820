package timesheets

import (
	"context"
	"time"
)

// Repo stores entries keyed by (org, employee, date, project). Writing an
// existing key replaces its values.
type Repo interface {
	UpsertEntries(ctx context.Context, orgID, employeeID string, rows []NormalizedRow, now time.Time) error
	List(ctx context.Context, orgID string, filter Filter) ([]Entry, error)
}
