package runner

import (
	"errors"
	"fmt"
	"time"

	"fileagents/pkg/agent"
	"fileagents/pkg/safety"
	"fileagents/pkg/tool"
	"fileagents/pkg/tracing"
)

// StepBudgetExceededError fails a task whose planner never settled on a
// final answer within the spec's step budget
type StepBudgetExceededError struct {
	TaskID   string
	Role     string
	MaxSteps int
}

func (e *StepBudgetExceededError) Error() string {
	return fmt.Sprintf("task %s (%s) exceeded its budget of %d reasoning steps", e.TaskID, e.Role, e.MaxSteps)
}

// TimeoutError fails a task that ran past its wall-clock budget
type TimeoutError struct {
	TaskID string
	Role   string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %s (%s) exceeded its wall-clock budget of %s", e.TaskID, e.Role, e.Budget)
}

// ToolExecutionError wraps a failure inside a tool body. The tool was
// validly licensed; the external collaborator failed.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// PlannerError wraps a failure of the reasoning function itself. The engine
// performs no retries of the planner, so this is fatal to the task.
type PlannerError struct {
	TaskID string
	Role   string
	Err    error
}

func (e *PlannerError) Error() string {
	return fmt.Sprintf("task %s (%s) planner failed: %v", e.TaskID, e.Role, e.Err)
}

func (e *PlannerError) Unwrap() error {
	return e.Err
}

// RunError is the consolidated failure returned by Run. It names the
// deepest task whose failure terminated the request and keeps the session
// log available for diagnosis.
type RunError struct {
	// TaskID is the deepest failed task
	TaskID string

	// Role is the agent role of that task
	Role string

	// Kind is the error kind name, e.g. "StepBudgetExceededError"
	Kind string

	// Err is the underlying typed error
	Err error

	// Log is the full session log of the request
	Log *tracing.SessionLog
}

func (e *RunError) Error() string {
	return fmt.Sprintf("request failed in task %s (%s): %s: %v", e.TaskID, e.Role, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// errorKind names an error after its type, matching the taxonomy used in
// step payloads and the consolidated run error
func errorKind(err error) string {
	var (
		duplicateTool  *tool.DuplicateToolError
		unknownTool    *tool.UnknownToolError
		unauthorized   *safety.UnauthorizedToolError
		schema         *safety.SchemaError
		overwrite      *safety.OverwriteRefusedError
		confirmation   *safety.ConfirmationRequiredError
		unknownAgent   *agent.UnknownAgentError
		cyclic         *agent.CyclicDelegationError
		stepBudget     *StepBudgetExceededError
		timeout        *TimeoutError
		toolExecution  *ToolExecutionError
		plannerFailure *PlannerError
	)

	switch {
	case errors.As(err, &duplicateTool):
		return "DuplicateToolError"
	case errors.As(err, &unknownTool):
		return "UnknownToolError"
	case errors.As(err, &unauthorized):
		return "UnauthorizedToolError"
	case errors.As(err, &schema):
		return "SchemaError"
	case errors.As(err, &overwrite):
		return "OverwriteRefusedError"
	case errors.As(err, &confirmation):
		return "ConfirmationRequiredError"
	case errors.As(err, &unknownAgent):
		return "UnknownAgentError"
	case errors.As(err, &cyclic):
		return "CyclicDelegationError"
	case errors.As(err, &stepBudget):
		return "StepBudgetExceededError"
	case errors.As(err, &timeout):
		return "TimeoutError"
	case errors.As(err, &toolExecution):
		return "ToolExecutionError"
	case errors.As(err, &plannerFailure):
		return "PlannerError"
	default:
		return "Error"
	}
}
