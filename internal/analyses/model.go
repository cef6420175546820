package analyses

import (
	"time"

	"logit-backend/internal/timesheets"
)

// Summary is one persisted monthly analysis. Re-running a period adds a new version.
type Summary struct {
	ID         string                     `json:"id"`
	OrgID      string                     `json:"org_id"`
	EmployeeID string                     `json:"employee_id"`
	MonthYear  string                     `json:"month_year"`
	Version    int                        `json:"version"`
	Summary    string                     `json:"summary"`
	Rating     float64                    `json:"rating"`
	JSONData   []timesheets.NormalizedRow `json:"json_data"`
	UploadID   string                     `json:"upload_id"`
	Provider   string                     `json:"provider"`
	Model      string                     `json:"model"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// Filter narrows List. Months are inclusive YYYY-MM bounds.
type Filter struct {
	EmployeeIDs []string
	MonthYear   string
	FromMonth   string
	ToMonth     string
	MinRating   *float64
	// Latest keeps only the highest version per employee and period.
	Latest bool
}
