package runner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fileagents/pkg/agent"
	"fileagents/pkg/model"
	"fileagents/pkg/result"
	"fileagents/pkg/safety"
	"fileagents/pkg/tool"
	"fileagents/pkg/tracing"
)

// Runner is the request entry point of the engine. It owns the registries,
// the safety gate and the planner, and executes one sequential reasoning
// trace per request. Independent requests may run concurrently; they share
// no task state, and the gate serializes filesystem checks per target path.
type Runner struct {
	agents  *agent.Registry
	tools   *tool.Registry
	gate    *safety.Gate
	planner model.Planner
	logger  *zap.Logger
}

// NewRunner creates a runner over the given registries and planner
func NewRunner(agents *agent.Registry, tools *tool.Registry, planner model.Planner) *Runner {
	return &Runner{
		agents:  agents,
		tools:   tools,
		gate:    safety.NewGate(tools),
		planner: planner,
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the operational logger
func (r *Runner) WithLogger(logger *zap.Logger) *Runner {
	r.logger = logger
	return r
}

// Run executes one request against the named agent role and returns its
// final answer. On failure the returned error is a *RunError naming the
// deepest failed task and carrying the session log for diagnosis.
func (r *Runner) Run(ctx context.Context, role, request string, opts *RunOptions) (*result.RunResult, error) {
	if opts == nil {
		opts = &RunOptions{}
	}

	spec, err := r.agents.Resolve(role)
	if err != nil {
		return nil, err
	}

	log := opts.sessionLog()
	hooks := opts.hooks()

	task := NewTask(role, request, "")
	if err := log.RegisterTask(task.ID, ""); err != nil {
		return nil, err
	}

	r.logger.Info("request started",
		zap.String("task_id", task.ID),
		zap.String("agent_role", role),
	)

	startedAt := time.Now()
	rt := &runtime{
		runner: r,
		spec:   spec,
		task:   task,
		log:    log,
		hooks:  hooks,
	}

	hooks.OnTaskStart(ctx, task)
	answer, err := rt.run(ctx)
	hooks.OnTaskEnd(ctx, task, answer, err)

	if err != nil {
		runErr := consolidate(err, task, log)
		r.logger.Error("request failed",
			zap.String("task_id", runErr.TaskID),
			zap.String("agent_role", runErr.Role),
			zap.String("kind", runErr.Kind),
			zap.Error(runErr.Err),
		)
		return nil, runErr
	}

	r.logger.Info("request completed",
		zap.String("task_id", task.ID),
		zap.Duration("duration", time.Since(startedAt)),
	)

	return &result.RunResult{
		TaskID:      task.ID,
		AgentRole:   role,
		FinalAnswer: answer,
		Log:         log,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
	}, nil
}

// consolidate wraps a task failure into the single error surfaced to the
// caller, pointing at the deepest task that caused termination
func consolidate(err error, root *Task, log *tracing.SessionLog) *RunError {
	taskID, role := root.ID, root.AgentRole
	switch e := err.(type) {
	case *StepBudgetExceededError:
		taskID, role = e.TaskID, e.Role
	case *TimeoutError:
		taskID, role = e.TaskID, e.Role
	case *PlannerError:
		taskID, role = e.TaskID, e.Role
	}

	return &RunError{
		TaskID: taskID,
		Role:   role,
		Kind:   errorKind(err),
		Err:    err,
		Log:    log,
	}
}
