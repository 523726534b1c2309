package agent

import (
	"fmt"
	"sync"
)

// Registry holds the registered agent specs. Like the tool registry it is
// populated once at startup and read-only afterwards.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*Spec
}

// NewRegistry creates an empty spec registry
func NewRegistry() *Registry {
	return &Registry{
		specs: make(map[string]*Spec),
	}
}

// Register validates and adds a spec. A spec whose managed-agent graph would
// contain the spec itself in its transitive closure is rejected with
// CyclicDelegationError. Managed roles may be registered later; a cycle is
// caught on whichever registration completes it.
func (r *Registry) Register(spec *Spec) error {
	if spec == nil {
		return fmt.Errorf("nil agent spec")
	}
	if spec.Role == "" {
		return fmt.Errorf("agent spec has no role name")
	}
	if spec.MaxSteps <= 0 {
		return fmt.Errorf("agent %q must have a positive step budget", spec.Role)
	}
	for _, managed := range spec.ManagedAgents {
		if managed == spec.Role {
			return &CyclicDelegationError{Role: spec.Role}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.Role]; exists {
		return fmt.Errorf("agent %q is already registered", spec.Role)
	}

	r.specs[spec.Role] = spec
	if cyclic := r.findCycle(); cyclic != "" {
		delete(r.specs, spec.Role)
		return &CyclicDelegationError{Role: cyclic}
	}
	return nil
}

// Resolve returns the spec registered under the given role, or
// UnknownAgentError
func (r *Registry) Resolve(role string) (*Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[role]
	if !ok {
		return nil, &UnknownAgentError{Role: role}
	}
	return spec, nil
}

// Roles returns the registered role names
func (r *Registry) Roles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]string, 0, len(r.specs))
	for role := range r.specs {
		roles = append(roles, role)
	}
	return roles
}

// findCycle walks the managed-agent graph and returns the role that closes
// a cycle, or "" when the graph is acyclic. Unregistered roles are treated
// as leaves; they are re-checked when they register. Caller must hold the
// lock.
func (r *Registry) findCycle() string {
	// The graph is tiny (a handful of roles), a plain DFS is enough.
	var visit func(role string, path map[string]bool) string
	visit = func(role string, path map[string]bool) string {
		spec, ok := r.specs[role]
		if !ok {
			return ""
		}
		path[role] = true
		for _, next := range spec.ManagedAgents {
			if path[next] {
				return next
			}
			if cyclic := visit(next, path); cyclic != "" {
				return cyclic
			}
		}
		delete(path, role)
		return ""
	}

	// Check every registered root: a new leaf can close a cycle that starts
	// elsewhere in the graph.
	for role := range r.specs {
		if cyclic := visit(role, map[string]bool{}); cyclic != "" {
			return cyclic
		}
	}
	return ""
}
