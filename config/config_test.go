package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 100, cfg.Engine.ChunkSize)
	assert.Equal(t, 150, cfg.Engine.MemoryMaxWords)
	assert.Equal(t, 10, cfg.Engine.HistoryWindow)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "memory", cfg.History.Backend)
	assert.Equal(t, "mock", cfg.Model.Provider)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
log:
  level: debug
  format: json
engine:
  chunk_size: 42
storage:
  backend: local
  local_path: /tmp/ingen
history:
  backend: sqlite
  sqlite_path: /tmp/ingen.db
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 42, cfg.Engine.ChunkSize)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/ingen", cfg.Storage.LocalPath)
	assert.Equal(t, "sqlite", cfg.History.Backend)
	// Unset keys keep their defaults.
	assert.Equal(t, 10, cfg.Engine.HistoryWindow)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("INGEN_LOG_LEVEL", "warn")
	t.Setenv("INGEN_ENGINE_CHUNK_SIZE", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Engine.ChunkSize)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Run("unknown log level", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("INGEN_LOG_LEVEL", "verbose")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("sqlite backend without path", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("INGEN_HISTORY_BACKEND", "sqlite")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown storage backend", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("INGEN_STORAGE_BACKEND", "ftp")

		_, err := Load()
		assert.Error(t, err)
	})
}
