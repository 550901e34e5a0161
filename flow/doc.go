// Package flow resolves workflow names to conversation flow implementations.
//
// Resolution is backed by a typed registry populated by explicit registration
// at startup: Go has no runtime module loading, so the dynamic lookup of the
// original design becomes a map keyed by normalized workflow name. Hyphenated
// and underscored spellings of the same name resolve identically, and lookup
// walks an ordered list of namespaces so first-party and project-local flow
// trees can coexist.
//
// Flows written against older calling conventions are wrapped once at
// registration time (WrapLegacyRequest, WrapLegacyFields); the hot dispatch
// path only ever sees core.ConversationFlow.
package flow
