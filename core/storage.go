package core

import "context"

// FileStorage abstracts the blob store behind the memory manager. Backends
// range from local disk to remote object storage; the manager treats them
// uniformly.
//
// Contract: Read returns an empty string (no error) for an absent object and
// Delete is a no-op for an absent object. Implementations must be safe for
// concurrent use.
type FileStorage interface {
	CheckExists(ctx context.Context, path, name string) (bool, error)
	Read(ctx context.Context, name, path string) (string, error)
	Write(ctx context.Context, content, name, path string) error
	Delete(ctx context.Context, name, path string) error
}
