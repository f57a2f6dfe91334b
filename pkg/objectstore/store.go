// Package objectstore holds watermarked document bytes outside the database. Every backend
// hands back an absolute URL that is persisted as the document's storage path and later
// used to fetch or delete the object again.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxObjectBytes caps reads when no explicit limit is configured.
const DefaultMaxObjectBytes = 64 << 20

var (
	// ErrNotFound is returned when the referenced object does not exist.
	ErrNotFound = errors.New("objectstore: object not found")
	// ErrTooLarge is returned when an object exceeds the configured read limit.
	ErrTooLarge = errors.New("objectstore: object exceeds read limit")
)

// Store is the content store contract used by the upload pipeline.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Get(ctx context.Context, url string) ([]byte, error)
	Delete(ctx context.Context, url string) error
}

// NormalizeURL guarantees the returned location carries a scheme.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + strings.TrimPrefix(raw, "//")
}

// readLimited buffers r, failing with ErrTooLarge past limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxObjectBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}
	return data, nil
}
