package storage

import (
	"context"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// BlobStorage is a FileStorage backed by URL-addressed object storage via
// the afs abstraction. The base URL's scheme selects the backend, e.g.
// "s3://bucket/prefix", "gs://bucket/prefix", "file:///var/data" or
// "mem://localhost/test".
type BlobStorage struct {
	fs      afs.Service
	baseURL string
}

var _ core.FileStorage = (*BlobStorage)(nil)

// NewBlobStorage constructs a BlobStorage rooted at baseURL.
func NewBlobStorage(baseURL string) *BlobStorage {
	return &BlobStorage{fs: afs.New(), baseURL: baseURL}
}

func (s *BlobStorage) objectURL(path, name string) string {
	return url.Join(s.baseURL, path, name)
}

// CheckExists reports whether the object exists.
func (s *BlobStorage) CheckExists(ctx context.Context, path, name string) (bool, error) {
	return s.fs.Exists(ctx, s.objectURL(path, name))
}

// Read downloads the object, or returns an empty string when absent.
func (s *BlobStorage) Read(ctx context.Context, name, path string) (string, error) {
	objectURL := s.objectURL(path, name)
	exists, err := s.fs.Exists(ctx, objectURL)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}
	data, err := s.fs.DownloadWithURL(ctx, objectURL)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write uploads the content.
func (s *BlobStorage) Write(ctx context.Context, content, name, path string) error {
	return s.fs.Upload(ctx, s.objectURL(path, name), 0o644, strings.NewReader(content))
}

// Delete removes the object; an absent object is a no-op.
func (s *BlobStorage) Delete(ctx context.Context, name, path string) error {
	objectURL := s.objectURL(path, name)
	exists, err := s.fs.Exists(ctx, objectURL)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return s.fs.Delete(ctx, objectURL)
}
