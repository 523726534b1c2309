package agent

import "fmt"

// UnknownAgentError is returned when resolving or delegating to a role that
// was never registered, or that the calling agent does not manage
type UnknownAgentError struct {
	Role string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent role %q", e.Role)
}

// CyclicDelegationError is returned at registration time when the
// managed-agent graph would reach the registering role from itself
type CyclicDelegationError struct {
	Role string
}

func (e *CyclicDelegationError) Error() string {
	return fmt.Sprintf("agent %q is part of a delegation cycle", e.Role)
}
