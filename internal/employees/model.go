package employees

import "time"

type Employee struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	EmpCode     string    `json:"emp_code"`
	Name        string    `json:"name"`
	Designation string    `json:"designation"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows List. Text fields are case-insensitive substring matches.
type Filter struct {
	// Query matches either the employee code or the name.
	Query   string
	EmpCode string
	Name    string
	IDs     []string
}
