package memory

import (
	"context"
	"path"
	"strings"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/logging"
)

const (
	// DefaultMaxWords is the word ceiling applied when a Maintain call does
	// not supply one.
	DefaultMaxWords = 150

	defaultBasePath = "memory"
	contextFileName = "context.md"
)

// ContextManager is the contract shared by the storage-abstracted Manager
// and the legacy direct-filesystem variant. All operations degrade
// gracefully: Read returns the caller-supplied default on storage error,
// the mutating operations return false and log instead of raising.
type ContextManager interface {
	Read(ctx context.Context, threadID, fallback string) string
	Write(ctx context.Context, threadID, text string) bool
	Maintain(ctx context.Context, threadID, text string, maxWords int) bool
	Delete(ctx context.Context, threadID string) bool
}

// Options configures a Manager.
type Options struct {
	// Logger for storage failures. Defaults to NoOp if nil.
	Logger logging.Logger

	// BasePath is the storage path prefix under which context blobs live.
	BasePath string

	// MaxWords is the default word ceiling for Maintain.
	MaxWords int
}

// Manager owns the per-thread memory context on top of a core.FileStorage
// backend. A thread's context lives at <base>/<thread>/context.md; an empty
// thread id addresses the global context at <base>/context.md.
type Manager struct {
	storage  core.FileStorage
	logger   logging.Logger
	basePath string
	maxWords int
}

var _ ContextManager = (*Manager)(nil)

// NewManager constructs a Manager over the given storage backend.
func NewManager(storage core.FileStorage, optFns ...func(o *Options)) *Manager {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		BasePath: defaultBasePath,
		MaxWords: DefaultMaxWords,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Manager{
		storage:  storage,
		logger:   opts.Logger,
		basePath: opts.BasePath,
		maxWords: opts.MaxWords,
	}
}

func (m *Manager) contextPath(threadID string) string {
	if threadID == "" {
		return m.basePath
	}
	return path.Join(m.basePath, threadID)
}

// Read returns the stored context for the thread, or fallback when the
// context does not exist or storage fails.
func (m *Manager) Read(ctx context.Context, threadID, fallback string) string {
	p := m.contextPath(threadID)
	exists, err := m.storage.CheckExists(ctx, p, contextFileName)
	if err != nil {
		logging.LogStorageOp(m.logger, "read", contextFileName, p, err)
		return fallback
	}
	if !exists {
		return fallback
	}
	text, err := m.storage.Read(ctx, contextFileName, p)
	logging.LogStorageOp(m.logger, "read", contextFileName, p, err)
	if err != nil {
		return fallback
	}
	return text
}

// Write replaces the stored context for the thread. Returns false on
// storage failure.
func (m *Manager) Write(ctx context.Context, threadID, text string) bool {
	p := m.contextPath(threadID)
	err := m.storage.Write(ctx, text, contextFileName, p)
	logging.LogStorageOp(m.logger, "write", contextFileName, p, err)
	return err == nil
}

// Maintain appends text to the stored context and trims the result to the
// last maxWords whitespace-delimited tokens (the Manager's default ceiling
// when maxWords is not positive).
//
// Maintain is NOT idempotent: each call appends text again, so retrying the
// same logical update duplicates it. Callers must invoke it exactly once per
// update.
func (m *Manager) Maintain(ctx context.Context, threadID, text string, maxWords int) bool {
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

// Delete removes the thread's stored context. Returns false on storage
// failure; deleting an absent context succeeds.
func (m *Manager) Delete(ctx context.Context, threadID string) bool {
	p := m.contextPath(threadID)
	err := m.storage.Delete(ctx, contextFileName, p)
	logging.LogStorageOp(m.logger, "delete", contextFileName, p, err)
	return err == nil
}
