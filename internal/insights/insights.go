// Package insights produces on-demand productivity insights for an employee
// over a date range.
package insights

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"logit-backend/internal/employees"
	"logit-backend/internal/llm"
	"logit-backend/internal/timesheets"
)

//go:embed prompts/insights.txt
var insightsTemplate string

const temperature = 0.3

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("no timesheets found")
)

// Insights is the model's reading of the range.
type Insights struct {
	ProductivityRating string   `json:"productivityRating" jsonschema:"required,enum=High,enum=Medium,enum=Low"`
	MainProjects       []string `json:"mainProjects" jsonschema:"required"`
	TotalHours         float64  `json:"totalHours" jsonschema:"required"`
	DaysWorked         int      `json:"daysWorked" jsonschema:"required"`
	LeavesTaken        int      `json:"leavesTaken" jsonschema:"required"`
	SummaryNotes       string   `json:"summaryNotes" jsonschema:"required"`
}

// Totals are computed from the stored rows and returned next to the model output.
type Totals struct {
	TotalHours  float64 `json:"totalHours"`
	DaysWorked  int     `json:"daysWorked"`
	LeavesTaken int     `json:"leavesTaken"`
	Entries     int     `json:"entries"`
}

type DateRange struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type Request struct {
	EmployeeID string    `json:"employee_id" binding:"required"`
	DateRange  DateRange `json:"date_range" binding:"required"`
	Project    string    `json:"project"`
}

type Result struct {
	Insights Insights `json:"insights"`
	Totals   Totals   `json:"totals"`
	Model    string   `json:"model"`
}

var insightsSchema = llm.SchemaFor[Insights]()

type Service struct {
	Employees *employees.Service
	Entries   timesheets.Repo
	Analyzer  *llm.Analyzer
}

// Generate loads the employee's rows in range and asks the model to summarize them.
func (s *Service) Generate(ctx context.Context, orgID string, req Request) (Result, error) {
	if s == nil || s.Employees == nil || s.Entries == nil || s.Analyzer == nil {
		return Result{}, errors.New("insights service not configured")
	}
	start, end, err := parseRange(req.DateRange)
	if err != nil {
		return Result{}, err
	}
	emp, err := s.Employees.Resolve(ctx, orgID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employees.ErrInvalidInput) {
			return Result{}, fmt.Errorf("%w: employee_id is required", ErrValidation)
		}
		return Result{}, err
	}

	entries, err := s.Entries.List(ctx, orgID, timesheets.Filter{
		EmployeeIDs: []string{emp.ID},
		From:        start,
		To:          end,
		Project:     strings.TrimSpace(req.Project),
	})
	if err != nil {
		return Result{}, fmt.Errorf("list timesheets: %w", err)
	}
	if len(entries) == 0 {
		return Result{}, ErrNotFound
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Row.Date < entries[j].Row.Date })

	prompt := BuildPrompt(emp.EmpCode+" ("+emp.Name+")", start, end, entries)
	obj, resp, err := s.Analyzer.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Schema:      insightsSchema,
		SchemaName:  "Insights",
		Temperature: llm.Float(temperature),
	})
	if err != nil {
		return Result{}, err
	}
	insights, err := decodeInsights(obj)
	if err != nil {
		return Result{}, err
	}
	return Result{Insights: insights, Totals: ComputeTotals(entries), Model: resp.Model}, nil
}

// BuildPrompt renders the insights prompt.
func BuildPrompt(employee, start, end string, entries []timesheets.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		done := strings.Join(strings.Fields(e.Row.WorkDone), " ")
		if done == "" {
			done = "-"
		}
		lines = append(lines, fmt.Sprintf("Date: %s, Project: %s, Hours: %s, Leave: %t, Summary: %s",
			e.Row.Date, e.Row.Project, strconv.FormatFloat(e.Row.HoursWorked, 'f', -1, 64), e.Row.IsLeave, done))
	}
	return strings.NewReplacer(
		"{{EMPLOYEE}}", employee,
		"{{START}}", start,
		"{{END}}", end,
		"{{ROWS}}", strings.Join(lines, "\n"),
	).Replace(insightsTemplate)
}

// ComputeTotals counts hours and days. Leave days exclude weekends.
func ComputeTotals(entries []timesheets.Entry) Totals {
	var t Totals
	worked := make(map[string]bool)
	leave := make(map[string]bool)
	for _, e := range entries {
		t.Entries++
		t.TotalHours += e.Row.HoursWorked
		switch {
		case !e.Row.IsLeave:
			worked[e.Row.Date] = true
		case !e.Row.IsWeekend:
			leave[e.Row.Date] = true
		}
	}
	for d := range leave {
		if !worked[d] {
			t.LeavesTaken++
		}
	}
	t.DaysWorked = len(worked)
	t.TotalHours = math.Round(t.TotalHours*100) / 100
	return t
}

func decodeInsights(obj json.RawMessage) (Insights, error) {
	var in Insights
	if err := json.Unmarshal(obj, &in); err != nil {
		return Insights{}, fmt.Errorf("%w: %v", llm.ErrMalformedPayload, err)
	}
	switch strings.ToLower(strings.TrimSpace(in.ProductivityRating)) {
	case "high":
		in.ProductivityRating = "High"
	case "medium":
		in.ProductivityRating = "Medium"
	case "low":
		in.ProductivityRating = "Low"
	default:
		return Insights{}, fmt.Errorf("%w: productivityRating %q", llm.ErrMalformedPayload, in.ProductivityRating)
	}
	if in.MainProjects == nil {
		in.MainProjects = []string{}
	}
	return in, nil
}

func parseRange(r DateRange) (string, string, error) {
	start, err := time.Parse("2006-01-02", strings.TrimSpace(r.Start))
	if err != nil {
		return "", "", fmt.Errorf("%w: date_range.start must be YYYY-MM-DD", ErrValidation)
	}
	end, err := time.Parse("2006-01-02", strings.TrimSpace(r.End))
	if err != nil {
		return "", "", fmt.Errorf("%w: date_range.end must be YYYY-MM-DD", ErrValidation)
	}
	if end.Before(start) {
		return "", "", fmt.Errorf("%w: date_range.end is before start", ErrValidation)
	}
	return start.Format("2006-01-02"), end.Format("2006-01-02"), nil
}
