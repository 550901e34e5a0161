// Package memory maintains the per-thread rolling conversation summary
// ("context"): a single word-bounded text blob read before a turn and
// written after it.
//
// The Manager operates against an injected storage abstraction (local disk,
// in-memory, Redis or remote blob storage) and degrades gracefully: storage
// failures yield caller-supplied defaults or boolean failure flags, never
// errors, because a conversation must not crash when memory storage is
// temporarily unavailable. A legacy direct-filesystem variant exposes the
// identical contract for local-only deployments, and a single Bridge
// boundary serves legacy synchronous call sites with a bounded worker pool.
package memory
