package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"logit-backend/internal/shared/util"
)

// ErrExists is returned when a write would replace an existing object.
var ErrExists = errors.New("object already exists")

// KeyAttempts bounds how many successive millisecond keys a store tries before
// giving up with ErrExists.
const KeyAttempts = 5

// ObjectStore defines the contract for saving and retrieving uploaded files.
// Keys are write-once: Save never overwrites an existing object.
type ObjectStore interface {
	Save(ctx context.Context, orgID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Key builds the storage key for an upload: {hash(org)}/{unix-millis}-{sanitized-name}.
func Key(orgID, fileName string, now time.Time) (string, error) {
	if strings.TrimSpace(orgID) == "" {
		return "", fmt.Errorf("org id is required")
	}
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashKey(orgID), fmt.Sprintf("%d-%s", now.UnixMilli(), sanitized)), nil
}

// Sniff reads up to 512 bytes to detect the content type and returns a reader
// that replays them ahead of the rest of r.
func Sniff(fileName string, r io.Reader) (string, io.Reader, error) {
	var buf [512]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	head := append([]byte(nil), buf[:n]...)
	return contentType(fileName, head), io.MultiReader(bytes.NewReader(head), r), nil
}

func contentType(fileName string, head []byte) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xlsm":
		return "application/vnd.ms-excel.sheet.macroEnabled.12"
	}
	return http.DetectContentType(head)
}
