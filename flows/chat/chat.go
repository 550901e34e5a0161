// Package chat implements the built-in model-backed conversation flow. It
// seeds the model with the thread's rolling memory context and reconstructed
// history, supports native streaming, and maintains the memory context after
// each turn.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/memory"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/model"
)

// Name is the workflow identifier this flow registers under.
const Name = "chat_agent"

const defaultSystemPrompt = "You are a helpful assistant. Answer the user's question using the conversation so far."

// Options configures the chat flow.
type Options struct {
	// SystemPrompt is the base instruction sent to the model.
	SystemPrompt string

	// MemoryMaxWords is the word ceiling applied when maintaining the
	// thread's rolling context. Zero uses the memory manager's default.
	MemoryMaxWords int

	// SummaryCharLimit truncates each side of the per-turn memory summary.
	SummaryCharLimit int
}

// Flow answers prompts with a chat completion model.
type Flow struct {
	model            model.Model
	memory           memory.ContextManager
	systemPrompt     string
	memoryMaxWords   int
	summaryCharLimit int
}

var (
	_ core.ConversationFlow          = (*Flow)(nil)
	_ core.StreamingConversationFlow = (*Flow)(nil)
)

// New constructs the chat flow. mem may be nil to disable rolling context
// maintenance.
func New(m model.Model, mem memory.ContextManager, optFns ...func(o *Options)) *Flow {
	opts := Options{
		SystemPrompt:     defaultSystemPrompt,
		SummaryCharLimit: 120,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Flow{
		model:            m,
		memory:           mem,
		systemPrompt:     opts.SystemPrompt,
		memoryMaxWords:   opts.MemoryMaxWords,
		summaryCharLimit: opts.SummaryCharLimit,
	}
}

func (f *Flow) buildRequest(ctx context.Context, req *core.ChatRequest, stream bool) model.Request {
	instructions := f.systemPrompt
	if f.memory != nil {
		if rolling := f.memory.Read(ctx, req.ThreadID, ""); rolling != "" {
			instructions += "\n\nConversation summary:\n" + rolling
		}
	} else if req.ThreadMemory != "" {
		instructions += "\n\nConversation so far:\n" + req.ThreadMemory
	}

	messages := make([]model.ChatMessage, 0, len(req.ThreadChatHistory)+1)
	for _, entry := range req.ThreadChatHistory {
		messages = append(messages, model.ChatMessage{Role: entry.Role, Content: entry.Content})
	}
	messages = append(messages, model.ChatMessage{Role: core.RoleUser, Content: req.Prompt})

	return model.Request{Instructions: instructions, Messages: messages, Stream: stream}
}

// GetConversationResponse implements core.ConversationFlow.
func (f *Flow) GetConversationResponse(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	respCh, errCh := f.model.Generate(ctx, f.buildRequest(ctx, req, false))
	text, usage, err := model.Collect(ctx, respCh, errCh)
	if err != nil {
		return nil, fmt.Errorf("model generation: %w", err)
	}

	summary := f.summarize(req.Prompt, text)
	if f.memory != nil && req.RecordMemory() {
		f.memory.Maintain(ctx, req.ThreadID, summary, f.memoryMaxWords)
	}

	resp := &core.ChatResponse{
		ThreadID:      req.ThreadID,
		MessageID:     core.NewID(),
		AgentResponse: text,
		MemorySummary: summary,
		Topic:         req.Topic,
	}
	if usage != nil {
		resp.TokenCount = usage.TotalTokens
	}
	return resp, nil
}

// GetStreamingConversationResponse implements core.StreamingConversationFlow.
// Partial model output is forwarded as content chunks; the stream terminates
// with exactly one final chunk (or one error chunk on failure).
func (f *Flow) GetStreamingConversationResponse(ctx context.Context, req *core.ChatRequest) (<-chan core.ChatResponseChunk, error) {
	out := make(chan core.ChatResponseChunk, 16)
	messageID := core.NewID()

	go func() {
		defer close(out)
		respCh, errCh := f.model.Generate(ctx, f.buildRequest(ctx, req, true))

		var usage *model.TokenUsage
		var full strings.Builder
		for {
			select {
			case <-ctx.Done():
				return
			case resp, ok := <-respCh:
				if !ok {
					// A pending error wins over channel closure; never
					// emit a clean final chunk after a model failure.
					if err := drainErrors(errCh); err != nil {
						select {
						case <-ctx.Done():
						case out <- core.ErrorChunk(req.ThreadID, err):
						}
						return
					}
					f.finishStream(ctx, req, out, messageID, full.String(), usage)
					return
				}
				if resp.Usage != nil {
					usage = resp.Usage
				}
				if !resp.Partial {
					continue
				}
				full.WriteString(resp.Text)
				chunk := core.ChatResponseChunk{
					ThreadID:  req.ThreadID,
					MessageID: messageID,
					ChunkType: core.ChunkTypeContent,
					Content:   resp.Text,
				}
				select {
				case <-ctx.Done():
					return
				case out <- chunk:
				}
			case err, ok := <-errCh:
				if !ok {
					errCh = nil
					continue
				}
				if err != nil {
					select {
					case <-ctx.Done():
					case out <- core.ErrorChunk(req.ThreadID, err):
					}
					return
				}
			}
		}
	}()

	return out, nil
}

// drainErrors receives from errCh until it closes and returns the first
// non-nil error, or nil for a nil channel.
func drainErrors(errCh <-chan error) error {
	if errCh == nil {
		return nil
	}
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *Flow) finishStream(
	ctx context.Context,
	req *core.ChatRequest,
	out chan<- core.ChatResponseChunk,
	messageID, text string,
	usage *model.TokenUsage,
) {
	if f.memory != nil && req.RecordMemory() {
		f.memory.Maintain(ctx, req.ThreadID, f.summarize(req.Prompt, text), f.memoryMaxWords)
	}
	final := core.ChatResponseChunk{
		ThreadID:  req.ThreadID,
		MessageID: messageID,
		ChunkType: core.ChunkTypeFinal,
		IsFinal:   true,
	}
	if usage != nil {
		final.TokenCount = usage.TotalTokens
	}
	select {
	case <-ctx.Done():
	case out <- final:
	}
}

func (f *Flow) summarize(prompt, answer string) string {
	return "user: " + truncate(prompt, f.summaryCharLimit) + " assistant: " + truncate(answer, f.summaryCharLimit)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
