// Package classification implements the built-in topic classification flow.
// It routes a prompt to one of the request's candidate topics by keyword
// overlap, deterministically, without calling a model.
package classification

import (
	"context"
	"fmt"
	"strings"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// Name is the workflow identifier this flow registers under.
const Name = "classification_agent"

// DefaultTopic is returned when no candidate topic matches the prompt.
const DefaultTopic = "general"

// Options configures the classification flow.
type Options struct {
	// DefaultTopic is used when no candidate matches.
	DefaultTopic string

	// FollowupQuestions maps a topic to suggested next prompts.
	FollowupQuestions map[string][]string
}

// Flow classifies prompts against the request's topic list.
type Flow struct {
	defaultTopic string
	followups    map[string][]string
}

var _ core.ConversationFlow = (*Flow)(nil)

// New constructs the classification flow.
func New(optFns ...func(o *Options)) *Flow {
	opts := Options{DefaultTopic: DefaultTopic}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Flow{
		defaultTopic: opts.DefaultTopic,
		followups:    opts.FollowupQuestions,
	}
}

// GetConversationResponse implements core.ConversationFlow. The selected
// topic is the candidate with the highest keyword overlap against the
// prompt; ties resolve to the earlier candidate in the request's topic list.
func (f *Flow) GetConversationResponse(ctx context.Context, req *core.ChatRequest) (*core.ChatResponse, error) {
	topic := f.classify(req.Prompt, req.TopicList())

	resp := &core.ChatResponse{
		ThreadID:          req.ThreadID,
		MessageID:         core.NewID(),
		AgentResponse:     fmt.Sprintf("Classified topic: %s", topic),
		MemorySummary:     "topic: " + topic,
		Topic:             topic,
		FollowupQuestions: f.followupsFor(topic),
	}
	return resp, nil
}

func (f *Flow) classify(prompt string, candidates []string) string {
	if len(candidates) == 0 {
		return f.defaultTopic
	}

	promptWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(prompt)) {
		promptWords[strings.Trim(w, ".,!?;:\"'")] = true
	}

	best := ""
	bestScore := 0
	for _, candidate := range candidates {
		score := 0
		for _, w := range strings.Fields(strings.ToLower(candidate)) {
			if promptWords[w] {
				score++
			}
		}
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if best == "" {
		return f.defaultTopic
	}
	return best
}

func (f *Flow) followupsFor(topic string) []string {
	questions := f.followups[topic]
	if len(questions) == 0 {
		return nil
	}
	out := make([]string, len(questions))
	copy(out, questions)
	return out
}
