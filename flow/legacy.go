package flow

import (
	"context"
	"fmt"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// LegacyRequestFunc is the older calling convention that declared a single
// parameter: the whole request.
type LegacyRequestFunc func(ctx context.Context, req *core.ChatRequest) (any, error)

// LegacyFieldsFunc is the oldest calling convention taking the individual
// fields legacy flows expected instead of the request object.
type LegacyFieldsFunc func(
	ctx context.Context,
	prompt string,
	topics []string,
	threadMemory string,
	memoryRecord bool,
	history []core.HistoryEntry,
) (any, error)

// TextWithSummary is the two-element legacy result shape: answer text plus a
// per-turn memory summary.
type TextWithSummary struct {
	Text          string
	MemorySummary string
}

type legacyRequestFlow struct {
	fn LegacyRequestFunc
}

func (f *legacyRequestFlow) GetConversationResponse(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	result, err := f.fn(ctx, req)
	if err != nil {
		return nil, err
	}
	return NormalizeResult(req.ThreadID, result)
}

type legacyFieldsFlow struct {
	fn LegacyFieldsFunc
}

func (f *legacyFieldsFlow) GetConversationResponse(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	result, err := f.fn(ctx, req.Prompt, req.TopicList(), req.ThreadMemory, req.RecordMemory(), req.ThreadChatHistory)
	if err != nil {
		return nil, err
	}
	return NormalizeResult(req.ThreadID, result)
}

// WrapLegacyRequest adapts a legacy whole-request function to the
// ConversationFlow interface.
func WrapLegacyRequest(fn LegacyRequestFunc) core.ConversationFlow {
	return &legacyRequestFlow{fn: fn}
}

// WrapLegacyFields adapts a legacy expanded-fields function to the
// ConversationFlow interface.
func WrapLegacyFields(fn LegacyFieldsFunc) core.ConversationFlow {
	return &legacyFieldsFlow{fn: fn}
}

// NormalizeResult converts a legacy call's return value into the canonical
// response shape. A canonical response passes through (gaining a fresh
// message id if it lacks one), a (text, summary) pair is wrapped, and
// anything else is stringified and wrapped.
func NormalizeResult(threadID string, result any) (*core.ChatResponse, error) {
	switch v := result.(type) {
	case *core.ChatResponse:
		if v == nil {
			return nil, fmt.Errorf("legacy flow returned a nil response")
		}
		fillIdentity(v, threadID)
		return v, nil
	case core.ChatResponse:
		resp := v
		fillIdentity(&resp, threadID)
		return &resp, nil
	case TextWithSummary:
		return wrapText(threadID, v.Text, v.MemorySummary), nil
	case [2]string:
		return wrapText(threadID, v[0], v[1]), nil
	case string:
		return wrapText(threadID, v, ""), nil
	case fmt.Stringer:
		return wrapText(threadID, v.String(), ""), nil
	default:
		return wrapText(threadID, fmt.Sprintf("%v", v), ""), nil
	}
}

func fillIdentity(resp *core.ChatResponse, threadID string) {
	if resp.ThreadID == "" {
		resp.ThreadID = threadID
	}
	if resp.MessageID == "" {
		resp.MessageID = core.NewID()
	}
}

func wrapText(threadID, text, summary string) *core.ChatResponse {
	return &core.ChatResponse{
		ThreadID:      threadID,
		MessageID:     core.NewID(),
		AgentResponse: text,
		MemorySummary: summary,
	}
}
