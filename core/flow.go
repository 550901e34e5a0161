package core

import "context"

// ConversationFlow is the contract every pluggable flow implements. The
// engine populates the request's scratch fields (thread memory, chat
// history) before calling GetConversationResponse; the flow decides what to
// say and returns the canonical response shape.
//
// Flows must respect context cancellation: a caller-imposed deadline
// propagates down through this call into whatever model or service the flow
// talks to.
type ConversationFlow interface {
	GetConversationResponse(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// StreamingConversationFlow is implemented by flows with native incremental
// output. When a resolved flow exposes it, the engine delegates streaming
// entirely to the flow: the flow controls chunk boundaries and emits the
// single final marker. The returned channel must be closed after the final
// chunk.
type StreamingConversationFlow interface {
	ConversationFlow
	GetStreamingConversationResponse(ctx context.Context, req *ChatRequest) (<-chan ChatResponseChunk, error)
}
