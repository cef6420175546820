package organizations

import (
	"context"
	"strings"
	"sync"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Organization
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Organization)}
}

func (r *MemoryRepo) Create(ctx context.Context, org Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Code, org.Code) {
			return ErrConflict
		}
	}
	r.byID[org.ID] = org
	return nil
}

func (r *MemoryRepo) GetByCode(ctx context.Context, code string) (Organization, error) {
	if err := ctx.Err(); err != nil {
		return Organization{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, org := range r.byID {
		if strings.EqualFold(org.Code, code) {
			return org, nil
		}
	}
	return Organization{}, ErrNotFound
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Organization, error) {
	if err := ctx.Err(); err != nil {
		return Organization{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	org, ok := r.byID[id]
	if !ok {
		return Organization{}, ErrNotFound
	}
	return org, nil
}
