package analyses

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"logit-backend/internal/timesheets"
)

type MemoryRepo struct {
	mu        sync.Mutex
	summaries []Summary
	Entries   EntryWriter
	Now       func() time.Time
}

func NewMemoryRepo(entries EntryWriter) *MemoryRepo {
	return &MemoryRepo{Entries: entries, Now: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, s Summary) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = r.Now().UTC()
	}
	version := 0
	for _, existing := range r.summaries {
		if existing.OrgID == s.OrgID && existing.EmployeeID == s.EmployeeID && existing.MonthYear == s.MonthYear && existing.Version > version {
			version = existing.Version
		}
	}
	s.Version = version + 1

	if r.Entries != nil {
		if err := r.Entries.UpsertEntries(ctx, s.OrgID, s.EmployeeID, s.JSONData, s.CreatedAt); err != nil {
			return Summary{}, fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	s.JSONData = append([]timesheets.NormalizedRow(nil), s.JSONData...)
	r.summaries = append(r.summaries, s)
	return s, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, orgID, id string) (Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.summaries {
		if s.OrgID == orgID && s.ID == id {
			return s, nil
		}
	}
	return Summary{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, orgID string, filter Filter) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var employees map[string]bool
	if filter.EmployeeIDs != nil {
		employees = make(map[string]bool, len(filter.EmployeeIDs))
		for _, id := range filter.EmployeeIDs {
			employees[id] = true
		}
	}

	var candidates []Summary
	for _, s := range r.summaries {
		if s.OrgID != orgID {
			continue
		}
		if employees != nil && !employees[s.EmployeeID] {
			continue
		}
		if filter.MonthYear != "" && s.MonthYear != filter.MonthYear {
			continue
		}
		if filter.FromMonth != "" && s.MonthYear < filter.FromMonth {
			continue
		}
		if filter.ToMonth != "" && s.MonthYear > filter.ToMonth {
			continue
		}
		candidates = append(candidates, s)
	}

	if filter.Latest {
		candidates = latestVersions(candidates)
	}

	out := candidates[:0:0]
	for _, s := range candidates {
		if filter.MinRating != nil && s.Rating < *filter.MinRating {
			continue
		}
		out = append(out, s)
	}
	sortSummaries(out)
	return out, nil
}

func latestVersions(in []Summary) []Summary {
	type key struct{ employee, month string }
	best := make(map[key]Summary)
	for _, s := range in {
		k := key{s.EmployeeID, s.MonthYear}
		if cur, ok := best[k]; !ok || s.Version > cur.Version {
			best[k] = s
		}
	}
	out := make([]Summary, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	return out
}

// sortSummaries orders newest first.
func sortSummaries(list []Summary) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		if list[i].Version != list[j].Version {
			return list[i].Version > list[j].Version
		}
		return list[i].ID < list[j].ID
	})
}
