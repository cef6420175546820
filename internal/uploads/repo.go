package uploads

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("upload not found")
	ErrInvalidInput = errors.New("invalid upload input")
)

// Repo defines persistence operations for uploads.
type Repo interface {
	Create(ctx context.Context, u Upload) error
	GetByID(ctx context.Context, orgID, id string) (Upload, error)
	List(ctx context.Context, orgID string, limit, offset int) ([]Upload, error)
}
