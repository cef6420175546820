package projects

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]Project
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{projects: make(map[string]Project)}
}

func (r *MemoryRepo) Create(ctx context.Context, p Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.projects {
		if existing.OrgID == p.OrgID && strings.EqualFold(existing.Name, p.Name) {
			return ErrConflict
		}
	}
	r.projects[p.ID] = p
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, orgID string) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Project
	for _, p := range r.projects {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepo) CountByStatus(ctx context.Context, orgID string) (StatusCounts, error) {
	list, err := r.List(ctx, orgID)
	if err != nil {
		return StatusCounts{}, err
	}
	var counts StatusCounts
	for _, p := range list {
		counts.add(p.Status, 1)
	}
	return counts, nil
}
