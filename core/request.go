package core

import "strings"

// ChatRequest is the inbound payload for a single conversational turn.
//
// Prompt and ConversationFlow are required; everything else is optional.
// ThreadID is generated by the engine when absent. Topic accepts either a
// single value or a comma-delimited list and is always consumed through
// TopicList.
//
// ThreadMemory and ThreadChatHistory are scratch fields populated by the
// engine during dispatch before the flow is invoked; callers should leave
// them empty.
type ChatRequest struct {
	ThreadID         string `json:"thread_id,omitempty"`
	UserID           string `json:"user_id,omitempty"`
	UserName         string `json:"user_name,omitempty"`
	Prompt           string `json:"user_prompt"`
	Topic            string `json:"topic,omitempty"`
	ConversationFlow string `json:"conversation_flow"`

	// MemoryRecord controls whether the turn is persisted to chat history.
	// nil means true.
	MemoryRecord *bool `json:"memory_record,omitempty"`

	ThreadMemory      string         `json:"-"`
	ThreadChatHistory []HistoryEntry `json:"-"`
}

// HistoryEntry is one reconstructed role/content pair of a thread's prior
// conversation, handed to flows via ChatRequest.ThreadChatHistory.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RecordMemory reports whether this turn should be persisted. Defaults to
// true when the flag was not supplied.
func (r *ChatRequest) RecordMemory() bool {
	return r.MemoryRecord == nil || *r.MemoryRecord
}

// TopicList normalizes the raw topic field into a list: comma-split,
// whitespace-trimmed, empty entries dropped.
func (r *ChatRequest) TopicList() []string {
	if strings.TrimSpace(r.Topic) == "" {
		return nil
	}
	parts := strings.Split(r.Topic, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
