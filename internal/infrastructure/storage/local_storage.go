package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appaccounting "github.com/azalscore/backend/internal/application/accounting"
)

// Ensure LocalStorage implements ObjectStorage
var _ appaccounting.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage stores document blobs on the local filesystem. Development
// only; the production validator refuses this driver.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a filesystem-backed store rooted at basePath
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./data/documents"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// resolve maps a storage key to a path under basePath, refusing traversal
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

// Put stores a document blob
func (s *LocalStorage) Put(_ context.Context, key string, content []byte, _ string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return os.WriteFile(path, content, 0o644)
}

// Get retrieves a document blob
func (s *LocalStorage) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored object: %w", err)
	}
	return content, nil
}

// Delete removes a document blob
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete stored object: %w", err)
	}
	return nil
}
