package analyses

import (
	_ "embed"
	"strconv"
	"strings"

	"logit-backend/internal/timesheets"
)

//go:embed prompts/monthly_summary.txt
var monthlySummaryTemplate string

const emptyField = "N/A"

// BuildPrompt renders the monthly summary prompt for one employee and period.
func BuildPrompt(employeeID, periodLabel string, rows []timesheets.NormalizedRow) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, formatRow(row))
	}
	return strings.NewReplacer(
		"{{EMPLOYEE_ID}}", employeeID,
		"{{PERIOD}}", periodLabel,
		"{{ROWS}}", strings.Join(lines, "\n"),
	).Replace(monthlySummaryTemplate)
}

func formatRow(row timesheets.NormalizedRow) string {
	return strings.Join([]string{
		row.Date,
		row.Day,
		row.Project,
		row.Team,
		strconv.FormatFloat(row.HoursWorked, 'f', -1, 64),
		orNA(row.WorkAssigned),
		orNA(row.WorkDone),
	}, " | ")
}

func orNA(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return emptyField
	}
	return s
}
