package timesheets

import (
	"time"

	"logit-backend/internal/shared/util"
)

// Periods returns the distinct month_year keys of rows in first-seen order.
func Periods(rows []NormalizedRow) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if r.MonthYear == "" || seen[r.MonthYear] {
			continue
		}
		seen[r.MonthYear] = true
		out = append(out, r.MonthYear)
	}
	return out
}

// FilterPeriod keeps the rows whose month_year equals period.
func FilterPeriod(rows []NormalizedRow, period string) []NormalizedRow {
	var out []NormalizedRow
	for _, r := range rows {
		if r.MonthYear == period {
			out = append(out, r)
		}
	}
	return out
}

// ParsePeriod validates a YYYY-MM key.
func ParsePeriod(period string) (time.Time, bool) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PeriodLabel renders a YYYY-MM key as "JUNE 2025". Unparseable keys are returned unchanged.
func PeriodLabel(period string) string {
	t, ok := ParsePeriod(period)
	if !ok {
		return period
	}
	return util.Upper(t.Format("January 2006"))
}

// PeriodBounds returns the first and last calendar day of a YYYY-MM key.
func PeriodBounds(period string) (string, string, bool) {
	t, ok := ParsePeriod(period)
	if !ok {
		return "", "", false
	}
	last := t.AddDate(0, 1, -1)
	return t.Format("2006-01-02"), last.Format("2006-01-02"), true
}
