package storage

import (
	"context"
	"sync"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// InMemoryStorage is a trivial in-process FileStorage implementation useful
// for tests, examples and single-process prototypes. Data does not survive a
// restart.
//
// Layout: path -> name -> content.
type InMemoryStorage struct {
	mu    sync.RWMutex
	files map[string]map[string]string
}

var _ core.FileStorage = (*InMemoryStorage)(nil)

// NewInMemoryStorage returns an empty in-memory storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{files: make(map[string]map[string]string)}
}

// CheckExists reports whether the object exists.
func (s *InMemoryStorage) CheckExists(_ context.Context, path, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[path][name]
	return ok, nil
}

// Read returns the stored content, or an empty string when absent.
func (s *InMemoryStorage) Read(_ context.Context, name, path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[path][name], nil
}

// Write stores (or overwrites) the content.
func (s *InMemoryStorage) Write(_ context.Context, content, name, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		s.files[path] = make(map[string]string)
	}
	s.files[path][name] = content
	return nil
}

// Delete removes the object if present.
func (s *InMemoryStorage) Delete(_ context.Context, name, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files[path], name)
	return nil
}
