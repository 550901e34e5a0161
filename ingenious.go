// Package ingenious is the top-level façade: it assembles the dispatch
// engine, storage-backed memory and the built-in conversation flows behind a
// small surface suitable for embedding in a host application.
package ingenious

import (
	"context"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/engine"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/flow"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/flows/chat"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/flows/classification"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/logging"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/memory"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/model"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/storage"
)

// Options configures an Ingenious instance using the functional options
// pattern. All services have in-memory defaults suitable for development
// and tests.
type Options struct {
	// EngineConfig contains dispatch tuning parameters. Defaults to
	// engine.DefaultConfig.
	EngineConfig engine.Config

	// History persists conversation turns. Defaults to the in-memory
	// repository.
	History core.ChatHistoryRepository

	// Storage backs the per-thread memory context files. Defaults to the
	// in-memory storage.
	Storage core.FileStorage

	// Registry resolves workflow names to flows. Defaults to a fresh
	// registry with the standard namespace order.
	Registry *flow.Registry

	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger

	// Model backs the built-in chat flow. When nil, the chat flow is not
	// registered.
	Model model.Model

	// MemoryMaxWords is the word ceiling for the rolling memory context.
	// Zero uses memory.DefaultMaxWords.
	MemoryMaxWords int
}

// Ingenious wires the engine, memory manager and built-in flows together.
type Ingenious struct {
	engine *engine.Engine
	memory *memory.Manager
	logger logging.Logger
}

// New creates an Ingenious instance with the built-in flows registered under
// the first-party namespace.
func New(optFns ...func(o *Options)) *Ingenious {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Storage == nil {
		opts.Storage = storage.NewInMemoryStorage()
	}
	if opts.Registry == nil {
		opts.Registry = flow.NewRegistry()
	}

	mem := memory.NewManager(opts.Storage, func(o *memory.Options) {
		o.Logger = opts.Logger
		if opts.MemoryMaxWords > 0 {
			o.MaxWords = opts.MemoryMaxWords
		}
	})

	opts.Registry.Register(flow.NamespaceCore, classification.Name, classification.New())
	if opts.Model != nil {
		opts.Registry.Register(flow.NamespaceCore, chat.Name, chat.New(opts.Model, mem, func(o *chat.Options) {
			if opts.MemoryMaxWords > 0 {
				o.MemoryMaxWords = opts.MemoryMaxWords
			}
		}))
	}

	eng := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		if opts.History != nil {
			o.History = opts.History
		}
		o.Registry = opts.Registry
		o.Logger = opts.Logger
	})

	return &Ingenious{
		engine: eng,
		memory: mem,
		logger: opts.Logger,
	}
}

// RegisterFlow adds a project-local conversation flow under the given name.
func (i *Ingenious) RegisterFlow(name string, fl core.ConversationFlow) {
	i.engine.Registry().Register(flow.NamespaceProject, name, fl)
}

// RegisterLegacyRequest adds a project-local legacy whole-request function.
func (i *Ingenious) RegisterLegacyRequest(name string, fn flow.LegacyRequestFunc) {
	i.engine.Registry().RegisterLegacyRequest(flow.NamespaceProject, name, fn)
}

// RegisterLegacyFields adds a project-local legacy expanded-fields function.
func (i *Ingenious) RegisterLegacyFields(name string, fn flow.LegacyFieldsFunc) {
	i.engine.Registry().RegisterLegacyFields(flow.NamespaceProject, name, fn)
}

// Chat processes one conversational turn and returns the canonical response.
func (i *Ingenious) Chat(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	return i.engine.Chat(ctx, req)
}

// ChatStream processes one conversational turn, streaming the response in
// chunks. The returned channel is always closed after exactly one terminal
// chunk.
func (i *Ingenious) ChatStream(ctx context.Context, req *core.ChatRequest) <-chan core.ChatResponseChunk {
	return i.engine.ChatStream(ctx, req)
}

// Memory exposes the per-thread memory context manager.
func (i *Ingenious) Memory() *memory.Manager { return i.memory }

// Engine exposes the underlying dispatch engine.
func (i *Ingenious) Engine() *engine.Engine { return i.engine }
