package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/storage"
)

type brokenStorage struct{}

var _ core.FileStorage = brokenStorage{}

func (brokenStorage) CheckExists(context.Context, string, string) (bool, error) {
	return false, errors.New("storage down")
}
func (brokenStorage) Read(context.Context, string, string) (string, error) {
	return "", errors.New("storage down")
}
func (brokenStorage) Write(context.Context, string, string, string) error {
	return errors.New("storage down")
}
func (brokenStorage) Delete(context.Context, string, string) error {
	return errors.New("storage down")
}

func TestManagerReadWrite(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewInMemoryStorage())

	assert.Equal(t, "fallback", m.Read(ctx, "t1", "fallback"))

	require.True(t, m.Write(ctx, "t1", "hello world"))
	assert.Equal(t, "hello world", m.Read(ctx, "t1", "fallback"))

	// Threads are isolated; the empty thread id addresses the global context.
	assert.Equal(t, "fallback", m.Read(ctx, "t2", "fallback"))
	require.True(t, m.Write(ctx, "", "global"))
	assert.Equal(t, "global", m.Read(ctx, "", ""))
	assert.Equal(t, "hello world", m.Read(ctx, "t1", ""))
}

func TestManagerMaintain(t *testing.T) {
	ctx := context.Background()

	t.Run("appends and trims to last maxWords", func(t *testing.T) {
		m := NewManager(storage.NewInMemoryStorage())

		var parts []string
		for i := 0; i < 20; i++ {
			parts = append(parts, fmt.Sprintf("w%02d", i))
		}
		require.True(t, m.Write(ctx, "t1", strings.Join(parts, " ")))
		require.True(t, m.Maintain(ctx, "t1", "tail end", 10))

		got := strings.Fields(m.Read(ctx, "t1", ""))
		require.Len(t, got, 10)
		assert.Equal(t, "tail", got[8])
		assert.Equal(t, "end", got[9])
		assert.Equal(t, "w12", got[0])
	})

	t.Run("is not idempotent", func(t *testing.T) {
		m := NewManager(storage.NewInMemoryStorage())

		require.True(t, m.Maintain(ctx, "t1", "alpha beta", 100))
		require.True(t, m.Maintain(ctx, "t1", "alpha beta", 100))

		assert.Equal(t, "alpha beta alpha beta", m.Read(ctx, "t1", ""))
	})

	t.Run("uses default ceiling when maxWords not positive", func(t *testing.T) {
		m := NewManager(storage.NewInMemoryStorage(), func(o *Options) { o.MaxWords = 3 })

		require.True(t, m.Maintain(ctx, "t1", "a b c d e", 0))
		assert.Equal(t, "c d e", m.Read(ctx, "t1", ""))
	})
}

func TestManagerDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	m := NewManager(brokenStorage{})

	assert.Equal(t, "fallback", m.Read(ctx, "t1", "fallback"))
	assert.False(t, m.Write(ctx, "t1", "x"))
	assert.False(t, m.Maintain(ctx, "t1", "x", 10))
	assert.False(t, m.Delete(ctx, "t1"))
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewInMemoryStorage())

	require.True(t, m.Write(ctx, "t1", "data"))
	require.True(t, m.Delete(ctx, "t1"))
	assert.Equal(t, "gone", m.Read(ctx, "t1", "gone"))

	// Deleting an absent context succeeds.
	assert.True(t, m.Delete(ctx, "never-written"))
}

func TestLegacyManager(t *testing.T) {
	ctx := context.Background()
	m := NewLegacyManager(t.TempDir())

	assert.Equal(t, "fallback", m.Read(ctx, "t1", "fallback"))
	require.True(t, m.Write(ctx, "t1", "hello"))
	assert.Equal(t, "hello", m.Read(ctx, "t1", ""))

	require.True(t, m.Maintain(ctx, "t1", "again", 2))
	assert.Equal(t, "hello again", m.Read(ctx, "t1", ""))

	require.True(t, m.Delete(ctx, "t1"))
	assert.True(t, m.Delete(ctx, "t1"))
	assert.Equal(t, "fallback", m.Read(ctx, "t1", "fallback"))
}

func TestBridge(t *testing.T) {
	m := NewManager(storage.NewInMemoryStorage())
	b := NewBridge(m, func(o *BridgeOptions) { o.Workers = 2 })

	require.True(t, b.Write("t1", "one two three"))
	assert.Equal(t, "one two three", b.Read("t1", ""))

	require.True(t, b.Maintain("t1", "four", 2))
	assert.Equal(t, "three four", b.Read("t1", ""))

	require.True(t, b.Delete("t1"))
	assert.Equal(t, "empty", b.Read("t1", "empty"))
}

func TestBridgeConcurrent(t *testing.T) {
	m := NewManager(storage.NewInMemoryStorage())
	b := NewBridge(m, func(o *BridgeOptions) { o.Workers = 2 })

	done := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			done <- b.Write(fmt.Sprintf("t%d", i), "data")
		}(i)
	}
	for i := 0; i < 16; i++ {
		assert.True(t, <-done)
	}
}
