package memory

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/logging"
)

// LegacyManager is the direct-filesystem variant of the Manager for
// local-only deployments with no remote-storage dependency. It exposes the
// identical ContextManager contract; the context parameters are accepted for
// interchangeability but local file I/O does not observe cancellation.
type LegacyManager struct {
	logger   logging.Logger
	baseDir  string
	maxWords int
}

var _ ContextManager = (*LegacyManager)(nil)

// NewLegacyManager constructs a LegacyManager rooted at baseDir.
func NewLegacyManager(baseDir string, optFns ...func(o *Options)) *LegacyManager {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		MaxWords: DefaultMaxWords,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &LegacyManager{
		logger:   opts.Logger,
		baseDir:  baseDir,
		maxWords: opts.MaxWords,
	}
}

func (m *LegacyManager) contextFile(threadID string) string {
	if threadID == "" {
		return filepath.Join(m.baseDir, contextFileName)
	}
	return filepath.Join(m.baseDir, threadID, contextFileName)
}

// Read returns the stored context for the thread, or fallback when the file
// does not exist or cannot be read.
func (m *LegacyManager) Read(_ context.Context, threadID, fallback string) string {
	data, err := os.ReadFile(m.contextFile(threadID))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("memory read failed thread_id=%s error=%v", threadID, err)
		}
		return fallback
	}
	return string(data)
}

// Write replaces the stored context for the thread, creating parent
// directories as needed. Returns false on failure.
func (m *LegacyManager) Write(_ context.Context, threadID, text string) bool {
	file := m.contextFile(threadID)
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		m.logger.Warn("memory write failed thread_id=%s error=%v", threadID, err)
		return false
	}
	if err := os.WriteFile(file, []byte(text), 0o644); err != nil {
		m.logger.Warn("memory write failed thread_id=%s error=%v", threadID, err)
		return false
	}
	return true
}

// Maintain appends text and trims to the last maxWords tokens. Like
// Manager.Maintain it is NOT idempotent under repeated identical calls.
func (m *LegacyManager) Maintain(ctx context.Context, threadID, text string, maxWords int) bool {
	if maxWords <= 0 {
		maxWords = m.maxWords
	}
	current := m.Read(ctx, threadID, "")
	words := strings.Fields(current + " " + text)
	if len(words) > maxWords {
		words = words[len(words)-maxWords:]
	}
	return m.Write(ctx, threadID, strings.Join(words, " "))
}

// Delete removes the thread's context file. An absent file counts as
// success.
func (m *LegacyManager) Delete(_ context.Context, threadID string) bool {
	if err := os.Remove(m.contextFile(threadID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true
		}
		m.logger.Warn("memory delete failed thread_id=%s error=%v", threadID, err)
		return false
	}
	return true
}
