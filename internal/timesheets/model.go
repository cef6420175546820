package timesheets

import "time"

// RawRow is one spreadsheet row keyed by its cleaned header text.
type RawRow struct {
	Line   int
	Values map[string]string
}

// NormalizedRow is the canonical per-day record produced by Normalize.
type NormalizedRow struct {
	Date         string  `json:"date"`
	Day          string  `json:"day"`
	EmpID        string  `json:"emp_id"`
	Name         string  `json:"name"`
	Project      string  `json:"project"`
	Team         string  `json:"team"`
	HoursWorked  float64 `json:"hours_worked"`
	WorkAssigned string  `json:"work_assigned"`
	WorkDone     string  `json:"work_done"`
	IsLeave      bool    `json:"is_leave"`
	IsWeekend    bool    `json:"is_weekend"`
	MonthYear    string  `json:"month_year"`
	// LeaveMarked mirrors an explicit Leave column when present. It never changes IsLeave.
	LeaveMarked *bool `json:"leave_marked,omitempty"`
}

// Entry is a NormalizedRow stored for an employee.
type Entry struct {
	ID         string        `json:"id"`
	OrgID      string        `json:"org_id"`
	EmployeeID string        `json:"employee_id"`
	Row        NormalizedRow `json:"row"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Filter narrows List. Dates are inclusive YYYY-MM-DD bounds.
type Filter struct {
	EmployeeIDs []string
	From        string
	To          string
	Project     string
	MonthYear   string
}

// View is an Entry flattened for responses, with the employee's code and name filled in.
type View struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	NormalizedRow
}

func (e Entry) View(empCode, name string) View {
	row := e.Row
	row.EmpID = empCode
	row.Name = name
	return View{ID: e.ID, EmployeeID: e.EmployeeID, NormalizedRow: row}
}
