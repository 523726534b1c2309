package runner

import (
	"context"

	"fileagents/pkg/tracing"
)

// Hooks observes the lifecycle of tasks during a run. Hooks are
// notification-only; they cannot veto engine decisions.
type Hooks interface {
	// OnTaskStart is called when a task's reasoning loop begins
	OnTaskStart(ctx context.Context, task *Task)

	// OnStep is called after every step appended to the session log
	OnStep(ctx context.Context, task *Task, step tracing.Step)

	// OnTaskEnd is called when a task terminates; err is nil on DONE
	OnTaskEnd(ctx context.Context, task *Task, answer string, err error)
}

// NoopHooks is a Hooks implementation that does nothing
type NoopHooks struct{}

// OnTaskStart does nothing
func (NoopHooks) OnTaskStart(ctx context.Context, task *Task) {}

// OnStep does nothing
func (NoopHooks) OnStep(ctx context.Context, task *Task, step tracing.Step) {}

// OnTaskEnd does nothing
func (NoopHooks) OnTaskEnd(ctx context.Context, task *Task, answer string, err error) {}
