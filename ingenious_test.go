package ingenious

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/flow"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/history"
	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/model"
)

func TestChatClassificationEndToEnd(t *testing.T) {
	repo := history.NewInMemoryRepository()
	app := New(func(o *Options) {
		o.History = repo
	})

	ctx := context.Background()
	resp, err := app.Chat(ctx, &core.ChatRequest{
		UserID:           "u1",
		Prompt:           "I need help with my billing statement",
		Topic:            "billing, shipping",
		ConversationFlow: "classification-agent",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ThreadID)
	assert.NotEmpty(t, resp.MessageID)
	assert.Equal(t, "billing", resp.Topic)
	assert.NotZero(t, resp.MaxTokenCount)

	// The exchange was persisted: user message, assistant message, memory.
	msgs, err := repo.GetThreadMessages(ctx, resp.ThreadID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, resp.MessageID, msgs[1].ID)

	mems, err := repo.GetThreadMemories(ctx, resp.ThreadID)
	require.NoError(t, err)
	require.Len(t, mems, 1)
	assert.Equal(t, "topic: billing", mems[0].Content)
}

func TestChatUnknownFlow(t *testing.T) {
	app := New()

	_, err := app.Chat(context.Background(), &core.ChatRequest{
		Prompt:           "hello",
		ConversationFlow: "does-not-exist",
	})

	var nf *core.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "does-not-exist", nf.Workflow)
}

func TestChatBuiltInChatFlow(t *testing.T) {
	mock := model.NewMockModel("test")
	mock.AddResponse("hello", "hi there")

	app := New(func(o *Options) {
		o.Model = mock
	})

	resp, err := app.Chat(context.Background(), &core.ChatRequest{
		UserID:           "u1",
		Prompt:           "hello",
		ConversationFlow: "Chat-Agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.AgentResponse)
	assert.Greater(t, resp.TokenCount, 0)
}

func TestChatStreamEndToEnd(t *testing.T) {
	mock := model.NewMockModel("test")
	mock.AddResponse("stream it", "streamed reply")

	repo := history.NewInMemoryRepository()
	app := New(func(o *Options) {
		o.Model = mock
		o.History = repo
	})

	var content strings.Builder
	finals := 0
	for chunk := range app.ChatStream(context.Background(), &core.ChatRequest{
		ThreadID:         "t1",
		UserID:           "u1",
		Prompt:           "stream it",
		ConversationFlow: "chat_agent",
	}) {
		switch chunk.ChunkType {
		case core.ChunkTypeContent:
			content.WriteString(chunk.Content)
		case core.ChunkTypeFinal:
			finals++
		case core.ChunkTypeError:
			t.Fatalf("unexpected error chunk: %s", chunk.ErrorMessage)
		}
	}

	assert.Equal(t, "streamed reply", content.String())
	assert.Equal(t, 1, finals)

	// Streamed turns accumulate in chat history like non-streamed ones.
	msgs, err := repo.GetThreadMessages(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "stream it", msgs[0].Content)
	assert.Equal(t, "streamed reply", msgs[1].Content)
}

func TestRegisterProjectFlow(t *testing.T) {
	app := New()
	app.RegisterFlow("custom_agent", flow.WrapLegacyRequest(func(_ context.Context, req *core.ChatRequest) (any, error) {
		return "custom: " + req.Prompt, nil
	}))

	resp, err := app.Chat(context.Background(), &core.ChatRequest{
		Prompt:           "hi",
		ConversationFlow: "Custom-Agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "custom: hi", resp.AgentResponse)
}

func TestRegisterLegacyFields(t *testing.T) {
	app := New()
	app.RegisterLegacyFields("legacy_agent", func(_ context.Context, prompt string, topics []string, _ string, _ bool, _ []core.HistoryEntry) (any, error) {
		return flow.TextWithSummary{Text: prompt + "!", MemorySummary: strings.Join(topics, "/")}, nil
	})

	resp, err := app.Chat(context.Background(), &core.ChatRequest{
		Prompt:           "hey",
		Topic:            "a, b",
		ConversationFlow: "legacy-agent",
	})
	require.NoError(t, err)
	assert.Equal(t, "hey!", resp.AgentResponse)
	assert.Equal(t, "a/b", resp.MemorySummary)
}

func TestMemoryAccessor(t *testing.T) {
	app := New()
	ctx := context.Background()

	require.True(t, app.Memory().Write(ctx, "t1", "remembered"))
	assert.Equal(t, "remembered", app.Memory().Read(ctx, "t1", ""))
}
