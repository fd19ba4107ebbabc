package images

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LocalStorage stores images on the local filesystem.
// Thread-safe for concurrent operations.
type LocalStorage struct {
	basePath  string
	publicURL string       // Base URL the API serves images from, e.g. "/images"
	mu        sync.RWMutex // Protects file operations
}

// NewLocalStorage creates a filesystem-backed image store.
// Images are written directly under storagePath, which is created if missing.
// publicURL is prepended to keys when building client-facing URLs.
func NewLocalStorage(storagePath, publicURL string) (*LocalStorage, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}

	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	return &LocalStorage{
		basePath:  storagePath,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// Save stores image data under the given key.
func (s *LocalStorage) Save(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// Get retrieves image data by key.
func (s *LocalStorage) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image not found for %s: %w", key, err)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists checks if an image exists for the key.
func (s *LocalStorage) Exists(_ context.Context, key string) bool {
	if key == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(key)
	if err != nil {
		return false
	}

	_, err = os.Stat(path)
	return err == nil
}

// Delete removes an image for the key.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			// Already deleted, not an error.
			return nil
		}
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Hash computes SHA256 hash of an image.
// Returns hex-encoded string for ETag/cache validation.
func (s *LocalStorage) Hash(ctx context.Context, key string) (string, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// URL returns the client-facing URL for the key.
func (s *LocalStorage) URL(key string) string {
	return s.publicURL + "/" + key
}

// path resolves a key to a filesystem path, rejecting traversal attempts.
func (s *LocalStorage) path(key string) (string, error) {
	cleaned := filepath.Clean(key)
	if cleaned != key || strings.Contains(key, "/") || strings.Contains(key, "\\") || cleaned == "." || cleaned == ".." {
		return "", fmt.Errorf("invalid image key: %s", key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}
