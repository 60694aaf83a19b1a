// Package storage persists finished artifacts.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-html2doc/internal/fileutil"
)

// Sentinel errors for storage operations.
var (
	ErrEmptyFilename   = errors.New("filename cannot be empty")
	ErrUnsafeFilename  = errors.New("filename contains path separator or traversal")
	ErrNothingToStore  = errors.New("artifact has no bytes")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// Store persists one named artifact payload and returns its final path.
type Store interface {
	Save(filename string, data []byte) (string, error)
}

// FSStore writes artifacts to a directory on the local filesystem.
// Writes are atomic: readers never observe a partial file.
type FSStore struct {
	dir string
}

// Compile-time interface check
var _ Store = (*FSStore)(nil)

// NewFSStore creates a store rooted at dir, creating it if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputDir, err)
	}
	return &FSStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *FSStore) Dir() string {
	return s.dir
}

// Save writes data under the store's directory and returns the path.
func (s *FSStore) Save(filename string, data []byte) (string, error) {
	if err := validateFilename(filename); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNothingToStore
	}

	path := filepath.Join(s.dir, filename)
	if err := fileutil.AtomicWrite(path, data, 0o600); err != nil {
		return "", fmt.Errorf("saving artifact: %w", err)
	}
	return path, nil
}

// validateFilename rejects names that would escape the store directory.
func validateFilename(name string) error {
	if name == "" {
		return ErrEmptyFilename
	}
	if strings.ContainsAny(name, "/\\\x00") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrUnsafeFilename, name)
	}
	return nil
}
