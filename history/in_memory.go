package history

import (
	"context"
	"sync"
	"time"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// InMemoryRepository is a volatile ChatHistoryRepository storing messages in
// process-local maps. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Returned slices are copies to prevent
// external mutation of internal state.
type InMemoryRepository struct {
	mu       sync.RWMutex
	messages map[string][]core.Message // threadID -> ordered messages
	memories map[string][]core.Message // threadID -> ordered memory summaries
}

var _ core.ChatHistoryRepository = (*InMemoryRepository)(nil)

// NewInMemoryRepository constructs an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		messages: make(map[string][]core.Message),
		memories: make(map[string][]core.Message),
	}
}

// GetThreadMessages returns a copy of the thread's messages in insertion
// order. An unknown thread yields an empty slice.
func (r *InMemoryRepository) GetThreadMessages(_ context.Context, threadID string) ([]core.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.messages[threadID]
	out := make([]core.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// AddMessage appends a message to the thread, assigning an id and timestamp
// when absent.
func (r *InMemoryRepository) AddMessage(_ context.Context, msg core.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fillDefaults(&msg)
	r.messages[msg.ThreadID] = append(r.messages[msg.ThreadID], msg)
	return msg.ID, nil
}

// AddMemory appends a memory summary to the thread's memory log.
func (r *InMemoryRepository) AddMemory(_ context.Context, msg core.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fillDefaults(&msg)
	r.memories[msg.ThreadID] = append(r.memories[msg.ThreadID], msg)
	return msg.ID, nil
}

// GetThreadMemories returns a copy of the thread's memory summaries.
func (r *InMemoryRepository) GetThreadMemories(_ context.Context, threadID string) ([]core.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.memories[threadID]
	out := make([]core.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func fillDefaults(msg *core.Message) {
	if msg.ID == "" {
		msg.ID = core.NewID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
}
