package employees

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("employee not found")
	ErrConflict     = errors.New("employee code already exists")
	ErrInvalidInput = errors.New("invalid employee input")
)

type Repo interface {
	Create(ctx context.Context, emp Employee) error
	GetByID(ctx context.Context, orgID, id string) (Employee, error)
	GetByCode(ctx context.Context, orgID, code string) (Employee, error)
	List(ctx context.Context, orgID string, filter Filter) ([]Employee, error)
	Count(ctx context.Context, orgID string) (int, error)
}
