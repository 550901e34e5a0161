// Package engine implements the session orchestrator: the coordinator
// between an inbound chat request and the pool of conversation flows.
//
// A request moves through a fixed sequence: thread resolution, history
// reconstruction, flow resolution, flow invocation, persistence. The first
// failure terminates the turn, except persistence failures which are logged
// and swallowed so the caller still receives the computed response.
//
// ChatStream wraps the same path, either delegating to a flow's native
// streaming method or slicing the full response into fixed-size chunks.
package engine
