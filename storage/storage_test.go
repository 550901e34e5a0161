package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// backendContract exercises the shared FileStorage semantics: absent objects
// read as empty, deletes are idempotent, writes overwrite.
func backendContract(t *testing.T, s core.FileStorage) {
	t.Helper()
	ctx := context.Background()

	exists, err := s.CheckExists(ctx, "memory/t1", "context.md")
	require.NoError(t, err)
	assert.False(t, exists)

	content, err := s.Read(ctx, "context.md", "memory/t1")
	require.NoError(t, err)
	assert.Empty(t, content)

	require.NoError(t, s.Write(ctx, "hello", "context.md", "memory/t1"))

	exists, err = s.CheckExists(ctx, "memory/t1", "context.md")
	require.NoError(t, err)
	assert.True(t, exists)

	content, err = s.Read(ctx, "context.md", "memory/t1")
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	// Overwrite.
	require.NoError(t, s.Write(ctx, "updated", "context.md", "memory/t1"))
	content, err = s.Read(ctx, "context.md", "memory/t1")
	require.NoError(t, err)
	assert.Equal(t, "updated", content)

	// Paths are isolated.
	other, err := s.Read(ctx, "context.md", "memory/t2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.Delete(ctx, "context.md", "memory/t1"))
	exists, err = s.CheckExists(ctx, "memory/t1", "context.md")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an absent object is a no-op.
	require.NoError(t, s.Delete(ctx, "context.md", "memory/t1"))
}

func TestInMemoryStorage(t *testing.T) {
	backendContract(t, NewInMemoryStorage())
}

func TestLocalStorage(t *testing.T) {
	backendContract(t, NewLocalStorage(t.TempDir()))
}
