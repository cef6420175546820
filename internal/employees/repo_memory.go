package employees

import (
	"context"
	"sort"
	"strings"
	"sync"

	"logit-backend/internal/shared/util"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	employees map[string]Employee
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{employees: make(map[string]Employee)}
}

func (r *MemoryRepo) Create(ctx context.Context, emp Employee) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.employees {
		if existing.OrgID == emp.OrgID && existing.EmpCode == emp.EmpCode {
			return ErrConflict
		}
	}
	r.employees[emp.ID] = emp
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, orgID, id string) (Employee, error) {
	if err := ctx.Err(); err != nil {
		return Employee{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	emp, ok := r.employees[id]
	if !ok || emp.OrgID != orgID {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (r *MemoryRepo) GetByCode(ctx context.Context, orgID, code string) (Employee, error) {
	if err := ctx.Err(); err != nil {
		return Employee{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, emp := range r.employees {
		if emp.OrgID == orgID && emp.EmpCode == code {
			return emp, nil
		}
	}
	return Employee{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, orgID string, filter Filter) ([]Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids map[string]bool
	if filter.IDs != nil {
		ids = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = true
		}
	}
	var out []Employee
	for _, emp := range r.employees {
		if emp.OrgID != orgID {
			continue
		}
		if ids != nil && !ids[emp.ID] {
			continue
		}
		if filter.Query != "" && !contains(emp.EmpCode, filter.Query) && !contains(emp.Name, filter.Query) {
			continue
		}
		if filter.EmpCode != "" && !contains(emp.EmpCode, filter.EmpCode) {
			continue
		}
		if filter.Name != "" && !contains(emp.Name, filter.Name) {
			continue
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EmpCode < out[j].EmpCode
	})
	return out, nil
}

func (r *MemoryRepo) Count(ctx context.Context, orgID string) (int, error) {
	list, err := r.List(ctx, orgID, Filter{})
	return len(list), err
}

func contains(haystack, needle string) bool {
	return strings.Contains(util.Fold(haystack), util.Fold(needle))
}
