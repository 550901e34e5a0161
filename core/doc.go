// Package core contains the shared data model and collaborator interfaces of
// the conversation engine: chat requests and responses, streamed response
// chunks, persisted messages, the ConversationFlow contract that every
// pluggable flow implements, and the error taxonomy crossing the
// orchestration boundary. Higher layers (engine, flow, memory, history,
// storage) depend on core; core depends on nothing else in this module.
package core
