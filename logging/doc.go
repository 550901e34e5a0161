// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer EngineLogger with contextual
// helpers (component, thread, message) and domain specific logging helpers
// for flow invocation, persistence and storage operations.
package logging
