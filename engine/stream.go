package engine

import (
	"context"
	"strings"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// ChatStream processes one conversational turn as a lazy, finite,
// non-restartable chunk sequence.
//
// When the resolved flow exposes native streaming, the flow controls chunk
// boundaries and the final marker; the engine reassembles the streamed text
// and persists the exchange once the final chunk has been forwarded, so a
// streamed turn lands in chat history exactly like a non-streamed one.
// Otherwise the full non-streaming path runs once and the response text is
// sliced into fixed-size content chunks followed by exactly one final
// metadata chunk.
//
// Any failure during resolution or invocation produces a single error chunk
// with IsFinal set; the stream never continues after an error. Cancellation
// is cooperative: stop pulling from the channel or cancel ctx.
func (e *Engine) ChatStream(ctx context.Context, req *core.ChatRequest) <-chan core.ChatResponseChunk {
	out := make(chan core.ChatResponseChunk, 16)
	go func() {
		defer close(out)
		e.stream(ctx, req, out)
	}()
	return out
}

func (e *Engine) stream(ctx context.Context, req *core.ChatRequest, out chan<- core.ChatResponseChunk) {
	fail := func(err error) {
		e.logger.Warn("streaming dispatch failed workflow=%s thread_id=%s error=%v", req.ConversationFlow, req.ThreadID, err)
		emit(ctx, out, core.ErrorChunk(req.ThreadID, err))
	}

	if err := validate(req); err != nil {
		fail(err)
		return
	}
	if req.ThreadID == "" {
		req.ThreadID = core.NewID()
	}

	fl, err := e.registry.Resolve(req.ConversationFlow)
	if err != nil {
		fail(err)
		return
	}

	if sf, ok := fl.(core.StreamingConversationFlow); ok {
		if err := e.loadHistory(ctx, req); err != nil {
			fail(err)
			return
		}
		ch, err := sf.GetStreamingConversationResponse(ctx, req)
		if err != nil {
			fail(err)
			return
		}
		var text strings.Builder
		var final *core.ChatResponseChunk
		for chunk := range ch {
			switch chunk.ChunkType {
			case core.ChunkTypeContent:
				text.WriteString(chunk.Content)
			case core.ChunkTypeFinal:
				f := chunk
				final = &f
			}
			if !emit(ctx, out, chunk) {
				return
			}
		}
		// An error-terminated stream persists nothing.
		if final == nil {
			return
		}
		resp := &core.ChatResponse{
			ThreadID:      req.ThreadID,
			MessageID:     final.MessageID,
			AgentResponse: text.String(),
			TokenCount:    final.TokenCount,
			MaxTokenCount: final.MaxTokenCount,
		}
		e.finalize(req, resp)
		e.persist(ctx, req, resp)
		return
	}

	// No native streaming: run the full path once and slice the result.
	resp, err := e.Chat(ctx, req)
	if err != nil {
		fail(err)
		return
	}
	for _, slice := range chunkText(resp.AgentResponse, e.config.ChunkSize) {
		chunk := core.ChatResponseChunk{
			ThreadID:  resp.ThreadID,
			MessageID: resp.MessageID,
			ChunkType: core.ChunkTypeContent,
			Content:   slice,
		}
		if !emit(ctx, out, chunk) {
			return
		}
	}
	emit(ctx, out, core.FinalChunk(resp))
}

func emit(ctx context.Context, out chan<- core.ChatResponseChunk, chunk core.ChatResponseChunk) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- chunk:
		return true
	}
}

// chunkText slices s into successive pieces of at most size runes. Splitting
// on rune boundaries keeps multi-byte characters intact.
func chunkText(s string, size int) []string {
	if size <= 0 {
		size = DefaultConfig.ChunkSize
	}
	runes := []rune(s)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
