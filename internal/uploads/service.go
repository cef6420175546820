package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"logit-backend/internal/shared/storage/object"
)

// Service stores uploaded files and records their metadata.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Now   func() time.Time
}

func NewService(store object.ObjectStore, repo Repo) *Service {
	return &Service{Store: store, Repo: repo, Now: time.Now}
}

// Save writes the file to object storage and records it.
func (s *Service) Save(ctx context.Context, orgID, fileName string, r io.Reader) (Upload, error) {
	if s == nil || s.Store == nil || s.Repo == nil {
		return Upload{}, errors.New("uploads service not configured")
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || strings.TrimSpace(orgID) == "" {
		return Upload{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, orgID, fileName, r)
	if err != nil {
		return Upload{}, fmt.Errorf("store upload: %w", err)
	}

	u := Upload{
		ID:         uuid.NewString(),
		OrgID:      orgID,
		FileName:   fileName,
		StorageKey: storageKey,
		MimeType:   mimeType,
		SizeBytes:  size,
		CreatedAt:  s.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return Upload{}, fmt.Errorf("record upload: %w", err)
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, orgID, id string) (Upload, error) {
	return s.Repo.GetByID(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID string, limit, offset int) ([]Upload, error) {
	return s.Repo.List(ctx, orgID, limit, offset)
}

// Open returns the stored file for an upload the org owns.
func (s *Service) Open(ctx context.Context, orgID, id string) (Upload, io.ReadCloser, error) {
	u, err := s.Repo.GetByID(ctx, orgID, id)
	if err != nil {
		return Upload{}, nil, err
	}
	rc, err := s.Store.Open(ctx, u.StorageKey)
	if err != nil {
		return Upload{}, nil, fmt.Errorf("open upload: %w", err)
	}
	return u, rc, nil
}
