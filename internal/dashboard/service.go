// Package dashboard serves the read-side aggregates behind the dashboard pages.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"logit-backend/internal/analyses"
	"logit-backend/internal/employees"
	"logit-backend/internal/projects"
	"logit-backend/internal/timesheets"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

const topRating = 10.0

type Service struct {
	Employees *employees.Service
	Projects  *projects.Service
	Entries   timesheets.Repo
	Summaries analyses.Repo
}

type TopPerformer struct {
	EmployeeID string  `json:"employee_id"`
	EmpCode    string  `json:"emp_code"`
	Name       string  `json:"name"`
	MonthYear  string  `json:"month_year"`
	Rating     float64 `json:"rating"`
}

type Overview struct {
	EmployeeCount        int                   `json:"employee_count"`
	TopPerformers        []TopPerformer        `json:"top_performers"`
	ProjectCountByStatus projects.StatusCounts `json:"project_count_by_status"`
	Projects             []projects.Project    `json:"projects"`
}

// Overview counts employees and projects and lists employees whose latest
// summary for some period is rated 10.
func (s *Service) Overview(ctx context.Context, orgID string) (Overview, error) {
	count, err := s.Employees.Count(ctx, orgID)
	if err != nil {
		return Overview{}, fmt.Errorf("count employees: %w", err)
	}
	threshold := topRating
	top, err := s.Summaries.List(ctx, orgID, analyses.Filter{Latest: true, MinRating: &threshold})
	if err != nil {
		return Overview{}, fmt.Errorf("list top summaries: %w", err)
	}
	counts, err := s.Projects.CountByStatus(ctx, orgID)
	if err != nil {
		return Overview{}, fmt.Errorf("count projects: %w", err)
	}
	list, err := s.Projects.List(ctx, orgID)
	if err != nil {
		return Overview{}, fmt.Errorf("list projects: %w", err)
	}
	if list == nil {
		list = []projects.Project{}
	}

	ids := make([]string, 0, len(top))
	for _, sum := range top {
		ids = append(ids, sum.EmployeeID)
	}
	byID, err := s.employeesByID(ctx, orgID, ids)
	if err != nil {
		return Overview{}, err
	}

	// Summaries are newest first; keep each employee's most recent top rating.
	performers := []TopPerformer{}
	seen := make(map[string]bool)
	for _, sum := range top {
		if seen[sum.EmployeeID] {
			continue
		}
		seen[sum.EmployeeID] = true
		emp := byID[sum.EmployeeID]
		performers = append(performers, TopPerformer{
			EmployeeID: sum.EmployeeID,
			EmpCode:    emp.EmpCode,
			Name:       emp.Name,
			MonthYear:  sum.MonthYear,
			Rating:     sum.Rating,
		})
	}

	return Overview{
		EmployeeCount:        count,
		TopPerformers:        performers,
		ProjectCountByStatus: counts,
		Projects:             list,
	}, nil
}

type SummaryRequest struct {
	EmpID        string `json:"emp_id"`
	EmployeeName string `json:"employee_name"`
	Project      string `json:"project"`
	FromDate     string `json:"from_date"`
	ToDate       string `json:"to_date"`
}

type SummaryResult struct {
	Employees     []employees.Employee `json:"employees"`
	Timesheets    []timesheets.View    `json:"timesheets"`
	Summaries     []analyses.Summary   `json:"summaries"`
	AverageRating *float64             `json:"average_rating"`
}

// Summary filters employees by code and name, then returns their timesheets in
// range, the latest summary per period, and the average of those ratings.
func (s *Service) Summary(ctx context.Context, orgID string, req SummaryRequest) (SummaryResult, error) {
	from, err := optionalDate("from_date", req.FromDate)
	if err != nil {
		return SummaryResult{}, err
	}
	to, err := optionalDate("to_date", req.ToDate)
	if err != nil {
		return SummaryResult{}, err
	}
	if from != "" && to != "" && to < from {
		return SummaryResult{}, fmt.Errorf("%w: to_date is before from_date", ErrValidation)
	}

	emps, err := s.Employees.List(ctx, orgID, employees.Filter{EmpCode: req.EmpID, Name: req.EmployeeName})
	if err != nil {
		return SummaryResult{}, fmt.Errorf("list employees: %w", err)
	}
	if len(emps) == 0 {
		return SummaryResult{}, fmt.Errorf("%w: no employees found", ErrNotFound)
	}
	ids := make([]string, 0, len(emps))
	byID := make(map[string]employees.Employee, len(emps))
	for _, e := range emps {
		ids = append(ids, e.ID)
		byID[e.ID] = e
	}

	entries, err := s.Entries.List(ctx, orgID, timesheets.Filter{
		EmployeeIDs: ids,
		From:        from,
		To:          to,
		Project:     strings.TrimSpace(req.Project),
	})
	if err != nil {
		return SummaryResult{}, fmt.Errorf("list timesheets: %w", err)
	}
	views := make([]timesheets.View, 0, len(entries))
	for _, e := range entries {
		emp := byID[e.EmployeeID]
		views = append(views, e.View(emp.EmpCode, emp.Name))
	}

	filter := analyses.Filter{EmployeeIDs: ids, Latest: true}
	if from != "" {
		filter.FromMonth = from[:7]
	}
	if to != "" {
		filter.ToMonth = to[:7]
	}
	sums, err := s.Summaries.List(ctx, orgID, filter)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("list summaries: %w", err)
	}
	if sums == nil {
		sums = []analyses.Summary{}
	}

	return SummaryResult{
		Employees:     emps,
		Timesheets:    views,
		Summaries:     sums,
		AverageRating: AverageRating(sums),
	}, nil
}

// AverageRating is the mean rating rounded to two decimals, or nil without summaries.
func AverageRating(sums []analyses.Summary) *float64 {
	if len(sums) == 0 {
		return nil
	}
	total := 0.0
	for _, s := range sums {
		total += s.Rating
	}
	avg := math.Round(total/float64(len(sums))*100) / 100
	return &avg
}

type HoursPoint struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

type DayCounts struct {
	Worked int `json:"worked"`
	Leave  int `json:"leave"`
}

type EmployeeDetail struct {
	Employee        employees.Employee `json:"employee"`
	Timesheets      []timesheets.View  `json:"timesheets"`
	HoursByDay      []HoursPoint       `json:"hours_by_day"`
	CumulativeHours []HoursPoint       `json:"cumulative_hours"`
	Days            DayCounts          `json:"days"`
	Summaries       []analyses.Summary `json:"summaries"`
	AverageRating   *float64           `json:"average_rating"`
}

// EmployeeDetail gathers one employee's timesheets, chart series and summaries.
func (s *Service) EmployeeDetail(ctx context.Context, orgID, ref string) (EmployeeDetail, error) {
	emp, err := s.Employees.Resolve(ctx, orgID, ref)
	if err != nil {
		return EmployeeDetail{}, err
	}
	entries, err := s.Entries.List(ctx, orgID, timesheets.Filter{EmployeeIDs: []string{emp.ID}})
	if err != nil {
		return EmployeeDetail{}, fmt.Errorf("list timesheets: %w", err)
	}
	sums, err := s.Summaries.List(ctx, orgID, analyses.Filter{EmployeeIDs: []string{emp.ID}})
	if err != nil {
		return EmployeeDetail{}, fmt.Errorf("list summaries: %w", err)
	}
	if sums == nil {
		sums = []analyses.Summary{}
	}
	latest, err := s.Summaries.List(ctx, orgID, analyses.Filter{EmployeeIDs: []string{emp.ID}, Latest: true})
	if err != nil {
		return EmployeeDetail{}, fmt.Errorf("list summaries: %w", err)
	}

	views := make([]timesheets.View, 0, len(entries))
	for _, e := range entries {
		views = append(views, e.View(emp.EmpCode, emp.Name))
	}
	daily, cumulative := HoursSeries(entries)
	return EmployeeDetail{
		Employee:        emp,
		Timesheets:      views,
		HoursByDay:      daily,
		CumulativeHours: cumulative,
		Days:            CountDays(entries),
		Summaries:       sums,
		AverageRating:   AverageRating(latest),
	}, nil
}

// HoursSeries sums hours per date in ascending order and the running total.
func HoursSeries(entries []timesheets.Entry) ([]HoursPoint, []HoursPoint) {
	perDay := make(map[string]float64)
	for _, e := range entries {
		perDay[e.Row.Date] += e.Row.HoursWorked
	}
	dates := make([]string, 0, len(perDay))
	for d := range perDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	daily := make([]HoursPoint, 0, len(dates))
	cumulative := make([]HoursPoint, 0, len(dates))
	running := 0.0
	for _, d := range dates {
		running += perDay[d]
		daily = append(daily, HoursPoint{Date: d, Hours: round2(perDay[d])})
		cumulative = append(cumulative, HoursPoint{Date: d, Hours: round2(running)})
	}
	return daily, cumulative
}

// CountDays counts distinct dates with work and distinct leave dates. A date with
// any worked row counts as worked.
func CountDays(entries []timesheets.Entry) DayCounts {
	worked := make(map[string]bool)
	leave := make(map[string]bool)
	for _, e := range entries {
		if e.Row.IsLeave {
			leave[e.Row.Date] = true
		} else {
			worked[e.Row.Date] = true
		}
	}
	counts := DayCounts{Worked: len(worked)}
	for d := range leave {
		if !worked[d] {
			counts.Leave++
		}
	}
	return counts
}

func (s *Service) employeesByID(ctx context.Context, orgID string, ids []string) (map[string]employees.Employee, error) {
	out := make(map[string]employees.Employee, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := s.Employees.List(ctx, orgID, employees.Filter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	for _, e := range list {
		out[e.ID] = e
	}
	return out, nil
}

func optionalDate(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return "", fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrValidation, field)
	}
	return t.Format("2006-01-02"), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
