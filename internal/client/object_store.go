package client

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"school-portal-api/internal/domain"
)

// ObjectStore stores attachment binaries by object key
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// GenerateFileKey builds a unique object key for a file owned by a content record.
// Format: content/{kind}/{contentId}/{year}/{month}/{uuid}_{timestamp}.ext
func GenerateFileKey(owner domain.Owner, originalName string) (string, error) {
	if _, ok := domain.SpecFor(owner.Kind); !ok {
		return "", fmt.Errorf("invalid content kind: %q", owner.Kind)
	}
	if owner.ContentID == uuid.Nil {
		return "", fmt.Errorf("content id is required")
	}

	now := time.Now()
	ext := strings.ToLower(filepath.Ext(originalName))

	return fmt.Sprintf("content/%s/%s/%d/%02d/%s_%d%s",
		owner.Kind,
		owner.ContentID,
		now.Year(),
		now.Month(),
		uuid.New().String(),
		now.UnixNano(),
		ext,
	), nil
}
