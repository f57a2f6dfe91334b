package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Local persists documents on disk under a base directory and addresses them through baseURL,
// which the router serves statically in development.
type Local struct {
	baseDir string
	baseURL string
}

// NewLocal ensures the base directory exists and returns a handle.
func NewLocal(baseDir, baseURL string) (*Local, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Local{baseDir: baseDir, baseURL: strings.TrimRight(NormalizeURL(baseURL), "/") + "/"}, nil
}

// Dir returns the directory backing the store.
func (s *Local) Dir() string {
	return s.baseDir
}

func (s *Local) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.baseDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write stored file: %w", err)
	}
	return s.baseURL + url.PathEscape(name), nil
}

func (s *Local) Get(_ context.Context, rawURL string) ([]byte, error) {
	path, err := s.resolve(rawURL)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}
	return data, nil
}

func (s *Local) Delete(_ context.Context, rawURL string) error {
	path, err := s.resolve(rawURL)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

func (s *Local) resolve(rawURL string) (string, error) {
	key, err := keyFromURL(s.baseURL, rawURL)
	if err != nil {
		return "", err
	}
	if key != filepath.Base(key) {
		return "", fmt.Errorf("objectstore: invalid object name %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}
