package agent

import (
	"time"
)

// Spec defines one node in the delegation hierarchy: a named role, the tools
// it may call, the agents it may delegate to, and its reasoning budgets.
// Capability restriction is data-driven; there is one loop implementation
// parameterized by Spec, not a type per role.
type Spec struct {
	// Role is the unique role name of the agent
	Role string

	// Description tells a delegating planner what this agent is for
	Description string

	// Instructions is the system prompt handed to the planner
	Instructions string

	// AllowedTools is the set of tool names this agent may invoke
	AllowedTools []string

	// ManagedAgents is the set of role names this agent may delegate to.
	// Leaf agents have none.
	ManagedAgents []string

	// MaxSteps is the reasoning step budget. Exceeding it fails the task.
	MaxSteps int

	// Timeout is the wall-clock budget per task. Zero means no timeout.
	Timeout time.Duration
}

// Allows reports whether the spec permits calling the named tool
func (s *Spec) Allows(toolName string) bool {
	for _, name := range s.AllowedTools {
		if name == toolName {
			return true
		}
	}
	return false
}

// Manages reports whether the spec permits delegating to the named role
func (s *Spec) Manages(role string) bool {
	for _, name := range s.ManagedAgents {
		if name == role {
			return true
		}
	}
	return false
}
