package uploads

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	uploads map[string]Upload
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{uploads: make(map[string]Upload)}
}

func (r *MemoryRepo) Create(ctx context.Context, u Upload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads[u.ID] = u
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, orgID, id string) (Upload, error) {
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.uploads[id]
	if !ok || u.OrgID != orgID {
		return Upload{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) List(ctx context.Context, orgID string, limit, offset int) ([]Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	r.mu.RLock()
	var out []Upload
	for _, u := range r.uploads {
		if u.OrgID == orgID {
			out = append(out, u)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
