package core

import "context"

// ChatHistoryRepository persists conversation turns. All calls may fail; the
// engine treats write failures after a computed response as recoverable
// (logged and swallowed) while read failures abort the turn.
type ChatHistoryRepository interface {
	// GetThreadMessages returns the thread's messages in insertion order.
	// An unknown thread yields an empty slice, not an error.
	GetThreadMessages(ctx context.Context, threadID string) ([]Message, error)

	// AddMessage appends a user or assistant message and returns its id.
	AddMessage(ctx context.Context, msg Message) (string, error)

	// AddMemory appends a per-turn memory summary message and returns its id.
	AddMemory(ctx context.Context, msg Message) (string, error)
}
