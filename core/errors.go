package core

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks client errors caused by an invalid request surface
// (missing prompt, empty workflow name). Wrap with detail:
//
//	fmt.Errorf("%w: conversation_flow must not be empty", core.ErrConfiguration)
var ErrConfiguration = errors.New("configuration error")

// NotFoundError is returned when a workflow name resolves to no registered
// conversation flow. Workflow holds the original, non-normalized identifier
// so callers can diagnose typos.
type NotFoundError struct {
	Workflow string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("conversation flow %q not found", e.Workflow)
}

// ContentFilterError short-circuits dispatch when a thread contains a
// previously filtered message. It is surfaced distinctly so the caller can
// start a new thread.
type ContentFilterError struct {
	ThreadID  string
	MessageID string
	Results   map[string]any
}

func (e *ContentFilterError) Error() string {
	return fmt.Sprintf("thread %s contains a content-filtered message %s", e.ThreadID, e.MessageID)
}

// InvocationError wraps a failure raised by a conversation flow. It is fatal
// for the request and never retried.
type InvocationError struct {
	Workflow string
	ThreadID string
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("conversation flow %q failed for thread %s: %v", e.Workflow, e.ThreadID, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }
