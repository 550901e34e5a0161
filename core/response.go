package core

// ChatResponse is the canonical response shape every invocation path
// converges to before being returned or persisted. Once handed to the caller
// it must be treated as immutable.
type ChatResponse struct {
	ThreadID          string   `json:"thread_id"`
	MessageID         string   `json:"message_id"`
	AgentResponse     string   `json:"agent_response"`
	TokenCount        int      `json:"token_count"`
	MaxTokenCount     int      `json:"max_token_count"`
	MemorySummary     string   `json:"memory_summary,omitempty"`
	Topic             string   `json:"topic,omitempty"`
	Event             string   `json:"event_type,omitempty"`
	FollowupQuestions []string `json:"followup_questions,omitempty"`
}

// ChunkType tags a streamed response chunk.
type ChunkType string

const (
	// ChunkTypeContent carries a partial slice of the agent's answer.
	ChunkTypeContent ChunkType = "content"
	// ChunkTypeFinal terminates a stream and carries response metadata.
	ChunkTypeFinal ChunkType = "final"
	// ChunkTypeError terminates a stream after a failure.
	ChunkTypeError ChunkType = "error"
)

// ChatResponseChunk is one element of a streamed response. Exactly one chunk
// per stream has IsFinal set, and it is the last chunk emitted.
type ChatResponseChunk struct {
	ThreadID      string    `json:"thread_id"`
	MessageID     string    `json:"message_id"`
	ChunkType     ChunkType `json:"chunk_type"`
	Content       string    `json:"content,omitempty"`
	TokenCount    int       `json:"token_count,omitempty"`
	MaxTokenCount int       `json:"max_token_count,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	IsFinal       bool      `json:"is_final"`
}

// FinalChunk builds the terminating metadata chunk for a completed response.
func FinalChunk(resp *ChatResponse) ChatResponseChunk {
	return ChatResponseChunk{
		ThreadID:      resp.ThreadID,
		MessageID:     resp.MessageID,
		ChunkType:     ChunkTypeFinal,
		TokenCount:    resp.TokenCount,
		MaxTokenCount: resp.MaxTokenCount,
		IsFinal:       true,
	}
}

// ErrorChunk builds the terminating chunk for a failed stream.
func ErrorChunk(threadID string, err error) ChatResponseChunk {
	return ChatResponseChunk{
		ThreadID:     threadID,
		ChunkType:    ChunkTypeError,
		ErrorMessage: err.Error(),
		IsFinal:      true,
	}
}
