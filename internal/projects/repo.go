package projects

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("project not found")
	ErrConflict     = errors.New("project already exists")
	ErrInvalidInput = errors.New("invalid project input")
)

type Repo interface {
	Create(ctx context.Context, p Project) error
	List(ctx context.Context, orgID string) ([]Project, error)
	CountByStatus(ctx context.Context, orgID string) (StatusCounts, error)
}
