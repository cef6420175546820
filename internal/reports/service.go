// Package reports builds tabular exports of timesheets and summaries.
package reports

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"logit-backend/internal/analyses"
	"logit-backend/internal/dashboard"
	"logit-backend/internal/employees"
	"logit-backend/internal/timesheets"
)

var ErrValidation = errors.New("validation failed")

type Service struct {
	Employees *employees.Service
	Entries   timesheets.Repo
	Summaries analyses.Repo
}

// Query narrows the org-wide timesheet report.
type Query struct {
	EmployeeRef string
	Project     string
	From        string
	To          string
	MonthYear   string
}

// Timesheets returns the org's timesheet rows newest first, joined with employee code and name.
func (s *Service) Timesheets(ctx context.Context, orgID string, q Query) ([]timesheets.View, error) {
	filter := timesheets.Filter{
		Project:   strings.TrimSpace(q.Project),
		From:      strings.TrimSpace(q.From),
		To:        strings.TrimSpace(q.To),
		MonthYear: strings.TrimSpace(q.MonthYear),
	}
	if filter.MonthYear != "" {
		if _, ok := timesheets.ParsePeriod(filter.MonthYear); !ok {
			return nil, fmt.Errorf("%w: month_year must be YYYY-MM", ErrValidation)
		}
	}
	if ref := strings.TrimSpace(q.EmployeeRef); ref != "" {
		emp, err := s.Employees.Resolve(ctx, orgID, ref)
		if err != nil {
			return nil, err
		}
		filter.EmployeeIDs = []string{emp.ID}
	}

	entries, err := s.Entries.List(ctx, orgID, filter)
	if err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}
	emps, err := s.Employees.List(ctx, orgID, employees.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	byID := make(map[string]employees.Employee, len(emps))
	for _, e := range emps {
		byID[e.ID] = e
	}
	out := make([]timesheets.View, 0, len(entries))
	for _, e := range entries {
		emp := byID[e.EmployeeID]
		out = append(out, e.View(emp.EmpCode, emp.Name))
	}
	return out, nil
}

type EmployeeReport struct {
	Employee      employees.Employee `json:"employee"`
	Timesheets    []timesheets.View  `json:"timesheets"`
	Summaries     []analyses.Summary `json:"summaries"`
	AverageRating *float64           `json:"average_rating"`
}

// Employee gathers the rows and latest summaries for one employee.
func (s *Service) Employee(ctx context.Context, orgID, ref string) (EmployeeReport, error) {
	emp, err := s.Employees.Resolve(ctx, orgID, ref)
	if err != nil {
		return EmployeeReport{}, err
	}
	entries, err := s.Entries.List(ctx, orgID, timesheets.Filter{EmployeeIDs: []string{emp.ID}})
	if err != nil {
		return EmployeeReport{}, fmt.Errorf("list timesheets: %w", err)
	}
	sums, err := s.Summaries.List(ctx, orgID, analyses.Filter{EmployeeIDs: []string{emp.ID}, Latest: true})
	if err != nil {
		return EmployeeReport{}, fmt.Errorf("list summaries: %w", err)
	}
	views := make([]timesheets.View, 0, len(entries))
	for _, e := range entries {
		views = append(views, e.View(emp.EmpCode, emp.Name))
	}
	if sums == nil {
		sums = []analyses.Summary{}
	}
	return EmployeeReport{
		Employee:      emp,
		Timesheets:    views,
		Summaries:     sums,
		AverageRating: dashboard.AverageRating(sums),
	}, nil
}

var timesheetHeaders = []string{"Date", "Day", "Employee ID", "Name", "Project", "Team", "Hours Worked", "Work Assigned", "Work Done", "Leave", "Weekend"}

// TimesheetTable lays rows out in the upload column order.
func TimesheetTable(rows []timesheets.View) Table {
	t := Table{Name: "Timesheets", Headers: timesheetHeaders}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Date, r.Day, r.EmpID, r.Name, r.Project, r.Team, r.HoursWorked,
			r.WorkAssigned, r.WorkDone, r.IsLeave, r.IsWeekend,
		})
	}
	return t
}

// EmployeeTables returns the details, timesheet and summary sections of an employee report.
func EmployeeTables(rep EmployeeReport) []Table {
	avg := "N/A"
	if rep.AverageRating != nil {
		avg = FormatRating(*rep.AverageRating)
	}
	details := Table{
		Name:    "Details",
		Headers: []string{"Field", "Value"},
		Rows: [][]any{
			{"Employee ID", rep.Employee.EmpCode},
			{"Name", rep.Employee.Name},
			{"Designation", rep.Employee.Designation},
			{"Average Rating", avg},
		},
	}
	summaries := Table{Name: "Summaries", Headers: []string{"Period", "Version", "Rating", "Summary"}}
	for _, s := range rep.Summaries {
		summaries.Rows = append(summaries.Rows, []any{
			timesheets.PeriodLabel(s.MonthYear), s.Version, FormatRating(s.Rating), s.Summary,
		})
	}
	return []Table{details, TimesheetTable(rep.Timesheets), summaries}
}

// FormatRating renders a rating as "8.5/10".
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64) + "/10"
}
