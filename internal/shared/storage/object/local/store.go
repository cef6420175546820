package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"logit-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
	now     func() time.Time
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

// Save writes the reader to disk under the org's namespace. Existing files are never
// replaced; a taken key moves to the next millisecond.
func (s *Store) Save(ctx context.Context, orgID string, fileName string, r io.Reader) (string, int64, string, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	mimeType, body, err := object.Sniff(fileName, r)
	if err != nil {
		return "", 0, "", err
	}

	start := s.now()
	for attempt := 0; attempt < object.KeyAttempts; attempt++ {
		key, err := object.Key(orgID, fileName, start.Add(time.Duration(attempt)*time.Millisecond))
		if err != nil {
			return "", 0, "", err
		}
		f, err := s.create(key)
		if errors.Is(err, object.ErrExists) {
			continue
		}
		if err != nil {
			return "", 0, "", err
		}
		size, err := io.Copy(f, body)
		closeErr := f.Close()
		if err != nil || closeErr != nil {
			// Failed writes leave no file behind.
			_ = os.Remove(f.Name())
			if err != nil {
				return "", 0, "", fmt.Errorf("write body: %w", err)
			}
			return "", 0, "", fmt.Errorf("close file: %w", closeErr)
		}
		return key, size, mimeType, nil
	}
	return "", 0, "", fmt.Errorf("%w: no free key for %s", object.ErrExists, fileName)
}

func (s *Store) create(key string) (*os.File, error) {
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", object.ErrExists, key)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(filepath.FromSlash(storageKey))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid storage key")
	}
	return os.Open(filepath.Join(s.baseDir, clean))
}

var _ object.ObjectStore = (*Store)(nil)
