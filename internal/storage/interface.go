package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage persists report images and hands out the public URL they are
// served from.
type Storage interface {
	// Save writes r under key and returns the public URL.
	Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)

	// Open streams a stored object. Only the local backend serves objects
	// itself; remote backends hand out URLs instead.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether key is stored, and its size.
	Exists(ctx context.Context, key string) (bool, int64, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	URL(key string) string
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// NewReportImageKey returns a unique key for an image attached to a report,
// grouped by upload month.
func NewReportImageKey(now time.Time, contentType string) string {
	ext, ok := extensions[contentType]
	if !ok {
		ext = ".bin"
	}
	return fmt.Sprintf("reports/%s/%s%s", now.UTC().Format("2006/01"), uuid.NewString(), ext)
}

// cleanKey rejects keys that would escape the storage root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}
