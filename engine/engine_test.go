package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/flow"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/history"
)

type echoFlow struct {
	invocations atomic.Int64
	summary     string
}

func (f *echoFlow) GetConversationResponse(_ context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	f.invocations.Add(1)
	return &core.ChatResponse{
		AgentResponse: "echo: " + req.Prompt,
		MemorySummary: f.summary,
	}, nil
}

type failingFlow struct {
	err error
}

func (f *failingFlow) GetConversationResponse(context.Context, *core.ChatRequest) (*core.ChatResponse, error) {
	return nil, f.err
}

type failingHistory struct {
	core.ChatHistoryRepository
	failLoad  bool
	failWrite bool
}

func (h *failingHistory) GetThreadMessages(ctx context.Context, threadID string) ([]core.Message, error) {
	if h.failLoad {
		return nil, errors.New("load failed")
	}
	return h.ChatHistoryRepository.GetThreadMessages(ctx, threadID)
}

func (h *failingHistory) AddMessage(ctx context.Context, msg core.Message) (string, error) {
	if h.failWrite {
		return "", errors.New("write failed")
	}
	return h.ChatHistoryRepository.AddMessage(ctx, msg)
}

func newTestEngine(fl core.ConversationFlow, optFns ...func(o *Options)) *Engine {
	reg := flow.NewRegistry()
	reg.Register(flow.NamespaceCore, "echo_agent", fl)
	return New(append([]func(o *Options){func(o *Options) {
		o.Registry = reg
	}}, optFns...)...)
}

func TestChatValidation(t *testing.T) {
	e := New()

	t.Run("missing flow", func(t *testing.T) {
		_, err := e.Chat(context.Background(), &core.ChatRequest{Prompt: "hi"})
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})

	t.Run("missing prompt", func(t *testing.T) {
		_, err := e.Chat(context.Background(), &core.ChatRequest{ConversationFlow: "echo_agent"})
		assert.ErrorIs(t, err, core.ErrConfiguration)
	})
}

func TestChatGeneratesThreadID(t *testing.T) {
	e := newTestEngine(&echoFlow{})

	req := &core.ChatRequest{Prompt: "hi", ConversationFlow: "echo-agent"}
	resp, err := e.Chat(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ThreadID)
	assert.Equal(t, req.ThreadID, resp.ThreadID)
	assert.NotEmpty(t, resp.MessageID)
	assert.Equal(t, DefaultConfig.MaxTokenCount, resp.MaxTokenCount)
}

func TestChatPreservesThreadID(t *testing.T) {
	e := newTestEngine(&echoFlow{})

	req := &core.ChatRequest{ThreadID: "fixed", Prompt: "hi", ConversationFlow: "echo_agent"}
	resp, err := e.Chat(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fixed", resp.ThreadID)
}

func TestChatNotFound(t *testing.T) {
	e := New()

	_, err := e.Chat(context.Background(), &core.ChatRequest{Prompt: "hi", ConversationFlow: "Does-Not-Exist"})

	var nf *core.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Does-Not-Exist", nf.Workflow)
}

func TestChatInvocationError(t *testing.T) {
	boom := errors.New("boom")
	e := newTestEngine(&failingFlow{err: boom})

	_, err := e.Chat(context.Background(), &core.ChatRequest{Prompt: "hi", ConversationFlow: "echo_agent"})

	var ie *core.InvocationError
	require.True(t, errors.As(err, &ie))
	assert.ErrorIs(t, err, boom)
}

func TestChatPersistsExchange(t *testing.T) {
	repo := history.NewInMemoryRepository()
	e := newTestEngine(&echoFlow{summary: "turn summary"}, func(o *Options) {
		o.History = repo
	})

	req := &core.ChatRequest{ThreadID: "t1", UserID: "u1", Prompt: "hi", ConversationFlow: "echo_agent"}
	resp, err := e.Chat(context.Background(), req)
	require.NoError(t, err)

	msgs, err := repo.GetThreadMessages(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	assert.Equal(t, resp.MessageID, msgs[1].ID)

	mems, err := repo.GetThreadMemories(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, mems, 1)
	assert.Equal(t, core.RoleMemoryAssistant, mems[0].Role)
	assert.Equal(t, "turn summary", mems[0].Content)
}

func TestChatSkipsPersistence(t *testing.T) {
	t.Run("when memory record is off", func(t *testing.T) {
		repo := history.NewInMemoryRepository()
		e := newTestEngine(&echoFlow{}, func(o *Options) { o.History = repo })

		off := false
		req := &core.ChatRequest{ThreadID: "t1", UserID: "u1", Prompt: "hi", ConversationFlow: "echo_agent", MemoryRecord: &off}
		_, err := e.Chat(context.Background(), req)
		require.NoError(t, err)

		msgs, _ := repo.GetThreadMessages(context.Background(), "t1")
		assert.Empty(t, msgs)
	})

	t.Run("when user id is absent", func(t *testing.T) {
		repo := history.NewInMemoryRepository()
		e := newTestEngine(&echoFlow{}, func(o *Options) { o.History = repo })

		req := &core.ChatRequest{ThreadID: "t1", Prompt: "hi", ConversationFlow: "echo_agent"}
		_, err := e.Chat(context.Background(), req)
		require.NoError(t, err)

		msgs, _ := repo.GetThreadMessages(context.Background(), "t1")
		assert.Empty(t, msgs)
	})
}

func TestChatSwallowsPersistenceFailure(t *testing.T) {
	repo := &failingHistory{ChatHistoryRepository: history.NewInMemoryRepository(), failWrite: true}
	e := newTestEngine(&echoFlow{}, func(o *Options) { o.History = repo })

	req := &core.ChatRequest{ThreadID: "t1", UserID: "u1", Prompt: "hi", ConversationFlow: "echo_agent"}
	resp, err := e.Chat(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", resp.AgentResponse)
}

func TestChatHistoryLoadFailureAborts(t *testing.T) {
	fl := &echoFlow{}
	repo := &failingHistory{ChatHistoryRepository: history.NewInMemoryRepository(), failLoad: true}
	e := newTestEngine(fl, func(o *Options) { o.History = repo })

	_, err := e.Chat(context.Background(), &core.ChatRequest{ThreadID: "t1", Prompt: "hi", ConversationFlow: "echo_agent"})
	assert.Error(t, err)
	assert.Equal(t, int64(0), fl.invocations.Load())
}

func TestChatContentFilterShortCircuit(t *testing.T) {
	fl := &echoFlow{}
	repo := history.NewInMemoryRepository()
	_, err := repo.AddMessage(context.Background(), core.Message{
		ID:                   "bad",
		ThreadID:             "t1",
		Role:                 core.RoleUser,
		Content:              "filtered",
		ContentFilterResults: map[string]any{"hate": "high"},
	})
	require.NoError(t, err)

	e := newTestEngine(fl, func(o *Options) { o.History = repo })

	_, err = e.Chat(context.Background(), &core.ChatRequest{ThreadID: "t1", UserID: "u1", Prompt: "hi", ConversationFlow: "echo_agent"})

	var cfe *core.ContentFilterError
	require.True(t, errors.As(err, &cfe))
	assert.Equal(t, "t1", cfe.ThreadID)
	assert.Equal(t, "bad", cfe.MessageID)

	// The flow never ran and no partial message was written.
	assert.Equal(t, int64(0), fl.invocations.Load())
	msgs, _ := repo.GetThreadMessages(context.Background(), "t1")
	assert.Len(t, msgs, 1)
}

type captureFlow struct {
	memory  string
	history []core.HistoryEntry
}

func (f *captureFlow) GetConversationResponse(_ context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	f.memory = req.ThreadMemory
	f.history = append([]core.HistoryEntry(nil), req.ThreadChatHistory...)
	return &core.ChatResponse{AgentResponse: "ok"}, nil
}

func TestChatContextAssembly(t *testing.T) {
	repo := history.NewInMemoryRepository()
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := repo.AddMessage(ctx, core.Message{
			ThreadID: "t1",
			Role:     core.RoleUser,
			Content:  fmt.Sprintf("message %02d %s", i, strings.Repeat("x", 300)),
		})
		require.NoError(t, err)
	}

	fl := &captureFlow{}
	e := newTestEngine(fl, func(o *Options) {
		o.History = repo
		o.Config = Config{ChunkSize: 100, HistoryWindow: 10, HistoryCharLimit: 50, MaxTokenCount: 4096}
	})

	_, err := e.Chat(ctx, &core.ChatRequest{ThreadID: "t1", Prompt: "hi", ConversationFlow: "echo_agent"})
	require.NoError(t, err)

	// Only the most recent window is reconstructed.
	require.Len(t, fl.history, 10)
	assert.Contains(t, fl.history[0].Content, "message 02")
	assert.Contains(t, fl.history[9].Content, "message 11")

	// History entries keep full content; the memory string truncates per line.
	assert.Greater(t, len(fl.history[0].Content), 50)
	lines := strings.Split(fl.memory, "\n")
	require.Len(t, lines, 10)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, core.RoleUser+": "))
		assert.LessOrEqual(t, len([]rune(line)), len(core.RoleUser+": ")+50)
	}
}
