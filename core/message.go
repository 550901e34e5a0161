package core

import "time"

// Conversation roles persisted to chat history.
const (
	RoleUser            = "user"
	RoleAssistant       = "assistant"
	RoleMemoryAssistant = "memory_assistant"
)

// Message is the persisted unit of a conversation turn. Messages are
// append-only: created by the engine after each turn and never mutated. A
// thread's ordered messages reconstruct its conversation history.
type Message struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
	Role     string `json:"role"`
	Content  string `json:"content"`

	// ToolCalls carries optional tool-call metadata attached by a flow.
	ToolCalls map[string]any `json:"tool_calls,omitempty"`

	// ContentFilterResults is non-empty when an upstream provider flagged
	// the message. A filtered message poisons its thread: dispatch refuses
	// to build context from it.
	ContentFilterResults map[string]any `json:"content_filter_results,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// ContentFiltered reports whether this message carries a content-filter
// result and therefore must never be included in future context.
func (m Message) ContentFiltered() bool { return len(m.ContentFilterResults) > 0 }
