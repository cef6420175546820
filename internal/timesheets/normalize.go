package timesheets

import (
	"math"
	"strconv"
	"strings"

	"logit-backend/internal/shared/util"
)

var headerAliases = map[string][]string{
	"date":          {"Date", "date"},
	"day":           {"Day", "day"},
	"emp_id":        {"Employee ID", "emp_id"},
	"name":          {"Name", "name"},
	"project":       {"Project", "project"},
	"team":          {"Team", "team"},
	"hours_worked":  {"Hours Worked", "Hours", "hours_worked"},
	"work_assigned": {"Work Assigned", "work_assigned"},
	"work_done":     {"Work Done", "Summary", "work_done", "work_summary"},
	"leave":         {"Leave", "is_leave"},
}

// Normalize converts raw rows into canonical rows. Rows without a parseable date
// are dropped. Order is preserved and nothing is deduplicated.
func Normalize(rows []RawRow) []NormalizedRow {
	out := make([]NormalizedRow, 0, len(rows))
	for _, raw := range rows {
		row, ok := normalizeRow(raw)
		if !ok {
			continue
		}
		out = append(out, row)
	}
	return out
}

func normalizeRow(raw RawRow) (NormalizedRow, bool) {
	date, ok := parseDate(field(raw, "date"))
	if !ok {
		return NormalizedRow{}, false
	}

	day := field(raw, "day")
	hours := parseHours(field(raw, "hours_worked"))
	workDone := field(raw, "work_done")
	weekend := isWeekend(day)

	return NormalizedRow{
		Date:         date.Format("2006-01-02"),
		Day:          day,
		EmpID:        field(raw, "emp_id"),
		Name:         field(raw, "name"),
		Project:      field(raw, "project"),
		Team:         field(raw, "team"),
		HoursWorked:  hours,
		WorkAssigned: field(raw, "work_assigned"),
		WorkDone:     workDone,
		IsWeekend:    weekend,
		IsLeave:      (workDone == "" && hours == 0) || weekend,
		MonthYear:    date.Format("2006-01"),
		LeaveMarked:  parseLeaveMark(field(raw, "leave")),
	}, true
}

// field returns the first non-empty value among the aliases of key.
func field(raw RawRow, key string) string {
	for _, alias := range headerAliases[key] {
		if v := strings.TrimSpace(raw.Values[alias]); v != "" {
			return v
		}
	}
	return ""
}

func isWeekend(day string) bool {
	switch util.Fold(day) {
	case "saturday", "sunday":
		return true
	}
	return false
}

// parseHours accepts "8", "7.5", "7,5", "1.234,5" and "1,234.5". When both
// separators appear the later one is the decimal point. A lone comma is a
// decimal comma only when one or two digits follow it, so "1,234" is 1234.
// Anything else, and negatives, yield 0.
func parseHours(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0
	}
	comma := strings.LastIndex(cleaned, ",")
	dot := strings.LastIndex(cleaned, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case comma >= 0 && strings.Count(cleaned, ",") == 1 && len(cleaned)-comma-1 <= 2:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case comma >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0
	}
	return hours
}

func parseLeaveMark(raw string) *bool {
	var v bool
	switch util.Fold(raw) {
	case "yes", "y", "true", "1":
		v = true
	case "no", "n", "false", "0":
		v = false
	default:
		return nil
	}
	return &v
}
