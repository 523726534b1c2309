package tracing

import "time"

// Step kinds
const (
	StepKindPlan             = "plan"
	StepKindToolCall         = "tool_call"
	StepKindObservation      = "observation"
	StepKindDelegationCall   = "delegation_call"
	StepKindDelegationResult = "delegation_result"
	StepKindFinalAnswer      = "final_answer"
	StepKindError            = "error"
)

// Step is one record in a task's reasoning trace. Steps are append-only and
// tagged with their task so the full call tree can be reconstructed from the
// session log alone.
type Step struct {
	// TaskID identifies the task this step belongs to
	TaskID string `json:"task_id"`

	// Index is the position of the step within its task, starting at 0
	Index int `json:"index"`

	// Kind is one of the StepKind constants
	Kind string `json:"kind"`

	// AgentRole is the role of the agent that produced the step
	AgentRole string `json:"agent_role,omitempty"`

	// Timestamp is the creation time of the step
	Timestamp time.Time `json:"timestamp"`

	// Payload holds serializable key/value data describing the step
	Payload map[string]interface{} `json:"payload,omitempty"`
}
