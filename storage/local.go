package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// LocalStorage is a FileStorage backed by a directory on local disk.
// Storage paths map to subdirectories under the root.
type LocalStorage struct {
	root string
}

var _ core.FileStorage = (*LocalStorage)(nil)

// NewLocalStorage constructs a LocalStorage rooted at the given directory.
func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

func (s *LocalStorage) file(path, name string) string {
	return filepath.Join(s.root, filepath.FromSlash(path), name)
}

// CheckExists reports whether the file exists.
func (s *LocalStorage) CheckExists(_ context.Context, path, name string) (bool, error) {
	_, err := os.Stat(s.file(path, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Read returns the file content, or an empty string when absent.
func (s *LocalStorage) Read(_ context.Context, name, path string) (string, error) {
	data, err := os.ReadFile(s.file(path, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// Write stores the content, creating parent directories as needed.
func (s *LocalStorage) Write(_ context.Context, content, name, path string) error {
	file := s.file(path, name)
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(file, []byte(content), 0o644)
}

// Delete removes the file; an absent file is a no-op.
func (s *LocalStorage) Delete(_ context.Context, name, path string) error {
	err := os.Remove(s.file(path, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
