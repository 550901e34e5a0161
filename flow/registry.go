package flow

import (
	"fmt"
	"strings"
	"sync"

	"github.com/the-ingenious-dark-knight/Insight-Ingenious-sub001/core"
)

// Well-known namespaces. Resolution tries them in registry order, so a
// first-party flow and a project-local flow may share a name with the
// first-party one winning.
const (
	// NamespaceCore holds the built-in, first-party flows.
	NamespaceCore = "ingenious"
	// NamespaceProject holds project-local flows registered by the host
	// application.
	NamespaceProject = "project"
)

// Normalize produces the canonical workflow identifier: lower-cased with
// hyphens converted to underscores, so "Knowledge-Base-Agent" and
// "knowledge_base_agent" select the same flow.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// Registry maps normalized workflow names to conversation flows across an
// ordered list of namespaces. It is read-mostly and safe for concurrent
// lookups.
type Registry struct {
	mu         sync.RWMutex
	namespaces []string
	flows      map[string]map[string]core.ConversationFlow // namespace -> normalized name -> flow
}

// NewRegistry constructs a registry with the given namespace search order.
// Without arguments it defaults to NamespaceCore then NamespaceProject.
func NewRegistry(namespaces ...string) *Registry {
	if len(namespaces) == 0 {
		namespaces = []string{NamespaceCore, NamespaceProject}
	}
	flows := make(map[string]map[string]core.ConversationFlow, len(namespaces))
	for _, ns := range namespaces {
		flows[ns] = make(map[string]core.ConversationFlow)
	}
	return &Registry{namespaces: namespaces, flows: flows}
}

// Register makes a flow available under the given namespace and name. The
// name is normalized before storage; re-registration replaces the previous
// flow without warning. An unknown namespace is created and appended to the
// end of the search order.
func (r *Registry) Register(namespace, name string, fl core.ConversationFlow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ns, ok := r.flows[namespace]
	if !ok {
		ns = make(map[string]core.ConversationFlow)
		r.flows[namespace] = ns
		r.namespaces = append(r.namespaces, namespace)
	}
	ns[Normalize(name)] = fl
}

// RegisterLegacyRequest registers a legacy whole-request function, wrapping
// it behind the ConversationFlow interface at registration time.
func (r *Registry) RegisterLegacyRequest(namespace, name string, fn LegacyRequestFunc) {
	r.Register(namespace, name, WrapLegacyRequest(fn))
}

// RegisterLegacyFields registers a legacy expanded-fields function, wrapping
// it behind the ConversationFlow interface at registration time.
func (r *Registry) RegisterLegacyFields(namespace, name string, fn LegacyFieldsFunc) {
	r.Register(namespace, name, WrapLegacyFields(fn))
}

// Resolve maps a raw workflow name to a registered flow, trying each
// namespace in order. An empty name is a configuration error; a name that
// matches no namespace yields a NotFoundError carrying the original,
// non-normalized identifier.
func (r *Registry) Resolve(name string) (core.ConversationFlow, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: conversation flow name must not be empty", core.ErrConfiguration)
	}
	normalized := Normalize(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ns := range r.namespaces {
		if fl, ok := r.flows[ns][normalized]; ok {
			return fl, nil
		}
	}
	return nil, &core.NotFoundError{Workflow: name}
}

// Names returns the normalized names registered in any namespace, without
// duplicates. Order is unspecified.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var names []string
	for _, ns := range r.namespaces {
		for name := range r.flows[ns] {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
