package tool

import "fmt"

// DuplicateToolError is returned when a tool name is registered twice for
// the same agent role
type DuplicateToolError struct {
	Role string
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered for role %q", e.Name, e.Role)
}

// UnknownToolError is returned when resolving a tool name that was never
// registered for the given agent role
type UnknownToolError struct {
	Role string
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q for role %q", e.Name, e.Role)
}
