package timesheets

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	entries map[entryKey]Entry
}

type entryKey struct {
	org, employee, date, project string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: make(map[entryKey]Entry)}
}

func (r *MemoryRepo) UpsertEntries(ctx context.Context, orgID, employeeID string, rows []NormalizedRow, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		key := entryKey{org: orgID, employee: employeeID, date: row.Date, project: row.Project}
		entry, ok := r.entries[key]
		if !ok {
			entry = Entry{ID: uuid.NewString(), OrgID: orgID, EmployeeID: employeeID, CreatedAt: now}
		}
		entry.Row = row
		entry.Row.EmpID = ""
		entry.Row.Name = ""
		entry.UpdatedAt = now
		r.entries[key] = entry
	}
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, orgID string, filter Filter) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var employees map[string]bool
	if filter.EmployeeIDs != nil {
		employees = make(map[string]bool, len(filter.EmployeeIDs))
		for _, id := range filter.EmployeeIDs {
			employees[id] = true
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Entry
	for _, e := range r.entries {
		if e.OrgID != orgID {
			continue
		}
		if employees != nil && !employees[e.EmployeeID] {
			continue
		}
		if filter.From != "" && e.Row.Date < filter.From {
			continue
		}
		if filter.To != "" && e.Row.Date > filter.To {
			continue
		}
		if filter.Project != "" && e.Row.Project != filter.Project {
			continue
		}
		if filter.MonthYear != "" && e.Row.MonthYear != filter.MonthYear {
			continue
		}
		out = append(out, e)
	}
	sortEntries(out)
	return out, nil
}

// sortEntries orders newest date first, then by project and employee.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Row.Date != b.Row.Date {
			return a.Row.Date > b.Row.Date
		}
		if a.Row.Project != b.Row.Project {
			return a.Row.Project < b.Row.Project
		}
		return a.EmployeeID < b.EmployeeID
	})
}
