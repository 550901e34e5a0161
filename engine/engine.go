package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/flow"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/history"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/logging"
)

// Config defines tuning parameters for dispatch behavior.
type Config struct {
	// ChunkSize is the streamed content slice size (in runes) used when a
	// flow has no native streaming support.
	ChunkSize int

	// HistoryWindow is the number of most recent messages reconstructed
	// into the thread memory string.
	HistoryWindow int

	// HistoryCharLimit truncates each reconstructed message's content when
	// building the thread memory string.
	HistoryCharLimit int

	// MaxTokenCount is reported on responses whose flow did not set one.
	MaxTokenCount int
}

// DefaultConfig provides production-ready defaults.
var DefaultConfig = Config{
	ChunkSize:        100,
	HistoryWindow:    10,
	HistoryCharLimit: 200,
	MaxTokenCount:    4096,
}

// Options configures an Engine instance using the functional options pattern.
// All services have in-memory defaults suitable for development and tests.
type Options struct {
	// Config contains operational parameters. Defaults to DefaultConfig.
	Config Config

	// History persists conversation turns. Defaults to the in-memory
	// repository.
	History core.ChatHistoryRepository

	// Registry resolves workflow names to flows. Defaults to an empty
	// registry with the standard namespace order.
	Registry *flow.Registry

	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// Engine coordinates the dispatch of one conversational turn to a resolved
// conversation flow and the durable recording of the exchange.
//
// Persistence writes within one request are issued sequentially (user,
// assistant, memory) but there is no cross-request ordering guarantee for
// the same thread id; callers needing strict per-thread ordering must
// serialize above this engine.
type Engine struct {
	config   Config
	history  core.ChatHistoryRepository
	registry *flow.Registry
	logger   logging.Logger
}

// New creates an Engine with sensible defaults and optional configuration.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:   DefaultConfig,
		History:  history.NewInMemoryRepository(),
		Registry: flow.NewRegistry(),
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		config:   opts.Config,
		history:  opts.History,
		registry: opts.Registry,
		logger:   opts.Logger,
	}
}

// Registry exposes the flow registry so hosts can register flows after
// construction.
func (e *Engine) Registry() *flow.Registry { return e.registry }

// Chat processes one conversational turn end to end and returns the
// canonical response. A request that returns successfully had its response
// computed exactly once; a request that fails before flow invocation never
// persists a partial message.
func (e *Engine) Chat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.ThreadID == "" {
		req.ThreadID = core.NewID()
	}

	if err := e.loadHistory(ctx, req); err != nil {
		return nil, err
	}

	fl, err := e.registry.Resolve(req.ConversationFlow)
	if err != nil {
		e.logger.Warn("flow resolution failed workflow=%s thread_id=%s error=%v", req.ConversationFlow, req.ThreadID, err)
		return nil, err
	}

	start := time.Now()
	resp, err := fl.GetConversationResponse(ctx, req)
	logging.LogFlowInvocation(e.logger, req.ConversationFlow, req.ThreadID, time.Since(start), err)
	if err != nil {
		return nil, &core.InvocationError{Workflow: req.ConversationFlow, ThreadID: req.ThreadID, Err: err}
	}
	e.finalize(req, resp)

	e.persist(ctx, req, resp)

	return resp, nil
}

func validate(req *core.ChatRequest) error {
	if strings.TrimSpace(req.ConversationFlow) == "" {
		return fmt.Errorf("%w: conversation_flow must not be empty", core.ErrConfiguration)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return fmt.Errorf("%w: user_prompt must not be empty", core.ErrConfiguration)
	}
	return nil
}

// loadHistory reconstructs the thread's conversation context onto the
// request: the full role/content pairs of the recent window plus a trimmed
// memory string. A previously content-filtered message aborts the turn
// before any flow is invoked.
func (e *Engine) loadHistory(ctx context.Context, req *core.ChatRequest) error {
	msgs, err := e.history.GetThreadMessages(ctx, req.ThreadID)
	if err != nil {
		return fmt.Errorf("load thread messages: %w", err)
	}

	for _, m := range msgs {
		if m.ContentFiltered() {
			return &core.ContentFilterError{ThreadID: req.ThreadID, MessageID: m.ID, Results: m.ContentFilterResults}
		}
	}

	window := msgs
	if len(window) > e.config.HistoryWindow {
		window = window[len(window)-e.config.HistoryWindow:]
	}

	entries := make([]core.HistoryEntry, 0, len(window))
	lines := make([]string, 0, len(window))
	for _, m := range window {
		entries = append(entries, core.HistoryEntry{Role: m.Role, Content: m.Content})
		lines = append(lines, m.Role+": "+truncate(m.Content, e.config.HistoryCharLimit))
	}
	req.ThreadChatHistory = entries
	req.ThreadMemory = strings.Join(lines, "\n")
	return nil
}

// finalize enforces response invariants before the response leaves the
// engine: thread id consistency, a non-empty message id and a token ceiling.
func (e *Engine) finalize(req *core.ChatRequest, resp *core.ChatResponse) {
	resp.ThreadID = req.ThreadID
	if resp.MessageID == "" {
		resp.MessageID = core.NewID()
	}
	if resp.MaxTokenCount == 0 {
		resp.MaxTokenCount = e.config.MaxTokenCount
	}
}

// persist records the exchange: user message, assistant message, then the
// memory summary when present. Failures here are logged and swallowed; the
// caller still receives the already-computed response.
func (e *Engine) persist(ctx context.Context, req *core.ChatRequest, resp *core.ChatResponse) {
	if !req.RecordMemory() || req.UserID == "" || req.ThreadID == "" {
		return
	}

	now := time.Now().UTC()
	userMsg := core.Message{
		ID:        core.NewID(),
		UserID:    req.UserID,
		ThreadID:  req.ThreadID,
		Role:      core.RoleUser,
		Content:   req.Prompt,
		Timestamp: now,
	}
	_, err := e.history.AddMessage(ctx, userMsg)
	logging.LogPersistence(e.logger, "user message", req.ThreadID, err)

	assistantMsg := core.Message{
		ID:        resp.MessageID,
		UserID:    req.UserID,
		ThreadID:  req.ThreadID,
		Role:      core.RoleAssistant,
		Content:   resp.AgentResponse,
		Timestamp: now,
	}
	_, err = e.history.AddMessage(ctx, assistantMsg)
	logging.LogPersistence(e.logger, "assistant message", req.ThreadID, err)

	if resp.MemorySummary != "" {
		memoryMsg := core.Message{
			ID:        core.NewID(),
			UserID:    req.UserID,
			ThreadID:  req.ThreadID,
			Role:      core.RoleMemoryAssistant,
			Content:   resp.MemorySummary,
			Timestamp: now,
		}
		_, err = e.history.AddMemory(ctx, memoryMsg)
		logging.LogPersistence(e.logger, "memory summary", req.ThreadID, err)
	}
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
