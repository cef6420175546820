package organizations

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("organization not found")
	ErrConflict     = errors.New("organization code already exists")
	ErrInvalidInput = errors.New("invalid organization input")
)

type Repo interface {
	Create(ctx context.Context, org Organization) error
	GetByCode(ctx context.Context, code string) (Organization, error)
	GetByID(ctx context.Context, id string) (Organization, error)
}
