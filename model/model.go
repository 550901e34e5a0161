// Package model defines the provider-neutral chat completion interface used
// by built-in conversation flows, with OpenAI and Anthropic implementations
// in subpackages and a deterministic mock for tests.
package model

import (
	"context"
	"fmt"
	"strings"
)

// ChatMessage is one turn of provider input.
type ChatMessage struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// Request captures the normalized model input produced by flows.
type Request struct {
	Instructions string        `json:"instructions"` // System instructions for the model
	Messages     []ChatMessage `json:"messages"`
	Stream       bool          `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a streaming model.
type Response struct {
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock"
}

// Model is the minimal interface required by flows to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Collect drains a Generate call into the final text and usage. Partial
// responses are concatenated when no non-partial response arrives.
//
// A pending error always wins over a closed response channel: when both are
// ready at once the error channel is drained before success is reported, so
// a producer that errors and then closes both channels never yields a clean
// result.
func Collect(ctx context.Context, respCh <-chan Response, errCh <-chan error) (string, *TokenUsage, error) {
	var builder strings.Builder
	var usage *TokenUsage
	final := ""
	for {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		case resp, ok := <-respCh:
			if !ok {
				if errCh != nil {
					for err := range errCh {
						if err != nil {
							return "", nil, err
						}
					}
				}
				if final != "" {
					return final, usage, nil
				}
				return builder.String(), usage, nil
			}
			if resp.Usage != nil {
				usage = resp.Usage
			}
			if resp.Partial {
				builder.WriteString(resp.Text)
				continue
			}
			final = resp.Text
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return "", nil, err
			}
		}
	}
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model; emits optional streaming char chunks then the
// final response with token usage.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)
		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}
		inputText := req.Messages[len(req.Messages)-1].Content
		full := m.responses[inputText]
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", inputText)
		}
		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
			}
		}
		usage := &TokenUsage{
			PromptTokens:     len(strings.Fields(inputText)),
			CompletionTokens: len(strings.Fields(full)),
		}
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		respCh <- Response{Partial: false, Text: full, FinishReason: "stop", Usage: usage}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
