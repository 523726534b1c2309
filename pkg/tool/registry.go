package tool

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the process-wide catalogue of tool descriptors, keyed by agent
// role. Registration happens once at startup; lookups afterwards are
// read-only.
type Registry struct {
	mu     sync.RWMutex
	byRole map[string]map[string]*Descriptor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byRole: make(map[string]map[string]*Descriptor),
	}
}

// Register adds a descriptor for the given role. It fails with
// DuplicateToolError when the name is already taken for that role.
func (r *Registry) Register(role string, desc *Descriptor) error {
	if desc == nil {
		return fmt.Errorf("nil descriptor for role %q", role)
	}
	if desc.Name == "" {
		return fmt.Errorf("descriptor for role %q has no name", role)
	}
	if desc.Execute == nil {
		return fmt.Errorf("tool %q for role %q has no execute function", desc.Name, role)
	}
	if desc.SideEffect == SideEffectDestructive && !desc.RequiresConfirmation {
		return fmt.Errorf("destructive tool %q for role %q must require confirmation", desc.Name, role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tools, ok := r.byRole[role]
	if !ok {
		tools = make(map[string]*Descriptor)
		r.byRole[role] = tools
	}

	if _, exists := tools[desc.Name]; exists {
		return &DuplicateToolError{Role: role, Name: desc.Name}
	}

	tools[desc.Name] = desc
	return nil
}

// Resolve returns the descriptor registered under the given role and name,
// or UnknownToolError
func (r *Registry) Resolve(role, name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.byRole[role][name]
	if !ok {
		return nil, &UnknownToolError{Role: role, Name: name}
	}
	return desc, nil
}

// ForRole returns all descriptors registered for a role, sorted by name
func (r *Registry) ForRole(role string) []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := r.byRole[role]
	out := make([]*Descriptor, 0, len(tools))
	for _, desc := range tools {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
