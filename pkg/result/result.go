package result

import (
	"time"

	"fileagents/pkg/tracing"
)

// RunResult is the outcome of one completed top-level request
type RunResult struct {
	// TaskID is the root task of the request
	TaskID string

	// AgentRole is the role of the entry agent
	AgentRole string

	// FinalAnswer is the answer the entry agent settled on
	FinalAnswer string

	// Log is the full session log of the request, covering the root task
	// and every delegated task
	Log *tracing.SessionLog

	// StartedAt and CompletedAt bound the request wall-clock time
	StartedAt   time.Time
	CompletedAt time.Time
}

// RootSteps returns the reasoning trace of the root task
func (r *RunResult) RootSteps() []tracing.Step {
	return r.Log.StepsForTask(r.TaskID)
}

// Duration returns how long the request took
func (r *RunResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
