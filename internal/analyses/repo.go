package analyses

import (
	"context"
	"time"

	"logit-backend/internal/timesheets"
)

// Repo persists summaries. Create assigns the next version for the employee and
// period and upserts the analysed rows in the same unit of work.
type Repo interface {
	Create(ctx context.Context, s Summary) (Summary, error)
	GetByID(ctx context.Context, orgID, id string) (Summary, error)
	List(ctx context.Context, orgID string, filter Filter) ([]Summary, error)
}

// EntryWriter stores timesheet rows alongside a summary.
type EntryWriter interface {
	UpsertEntries(ctx context.Context, orgID, employeeID string, rows []timesheets.NormalizedRow, now time.Time) error
}
