package runner

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fileagents/pkg/agent"
	"fileagents/pkg/model"
	"fileagents/pkg/tool"
	"fileagents/pkg/tracing"
)

// runtime executes the plan→act→observe loop for one task. One step of the
// loop is one planner invocation; the spec's MaxSteps bounds how many the
// task gets before it fails. Steps within a task never interleave.
type runtime struct {
	runner *Runner
	spec   *agent.Spec
	task   *Task
	log    *tracing.SessionLog
	hooks  Hooks
}

// run drives the loop to DONE (final answer) or FAILED (typed error).
// Safety-gate rejections and tool failures are recoverable: they are
// appended as error steps and fed back to the planner. Budget exhaustion,
// wall-clock timeout and planner failure are fatal to the task.
func (rt *runtime) run(ctx context.Context) (string, error) {
	if rt.spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.spec.Timeout)
		defer cancel()
	}

	for step := 1; step <= rt.spec.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return "", rt.abort(ctx, err)
		}

		action, err := rt.runner.planner.Plan(ctx, rt.planRequest())
		if err != nil {
			if ctx.Err() != nil {
				return "", rt.abort(ctx, ctx.Err())
			}
			perr := &PlannerError{TaskID: rt.task.ID, Role: rt.spec.Role, Err: err}
			rt.append(ctx, tracing.StepKindError, map[string]interface{}{
				"kind":    errorKind(perr),
				"message": perr.Error(),
			})
			return "", perr
		}

		rt.append(ctx, tracing.StepKindPlan, planPayload(action))

		switch action.Kind {
		case model.ActionKindToolCall:
			rt.execTool(ctx, action.ToolCall)

		case model.ActionKindDelegation:
			rt.delegate(ctx, action.Delegation)

		case model.ActionKindFinalAnswer:
			rt.append(ctx, tracing.StepKindFinalAnswer, map[string]interface{}{
				"answer": action.FinalAnswer,
			})
			return action.FinalAnswer, nil

		default:
			perr := &PlannerError{
				TaskID: rt.task.ID,
				Role:   rt.spec.Role,
				Err:    fmt.Errorf("unknown action kind %q", action.Kind),
			}
			rt.append(ctx, tracing.StepKindError, map[string]interface{}{
				"kind":    errorKind(perr),
				"message": perr.Error(),
			})
			return "", perr
		}
	}

	budgetErr := &StepBudgetExceededError{
		TaskID:   rt.task.ID,
		Role:     rt.spec.Role,
		MaxSteps: rt.spec.MaxSteps,
	}
	rt.append(ctx, tracing.StepKindError, map[string]interface{}{
		"kind":    errorKind(budgetErr),
		"message": budgetErr.Error(),
	})
	return "", budgetErr
}

// abort converts a context failure into the task's fatal error. A deadline
// under a configured wall-clock budget is a TimeoutError; an external
// cancellation propagates as-is.
func (rt *runtime) abort(ctx context.Context, cause error) error {
	var taskErr error
	if errors.Is(cause, context.DeadlineExceeded) {
		taskErr = &TimeoutError{TaskID: rt.task.ID, Role: rt.spec.Role, Budget: rt.spec.Timeout}
	} else {
		taskErr = fmt.Errorf("task %s (%s) cancelled: %w", rt.task.ID, rt.spec.Role, cause)
	}

	// Record on a background-compatible path: the task context is dead.
	rt.append(context.WithoutCancel(ctx), tracing.StepKindError, map[string]interface{}{
		"kind":    errorKind(taskErr),
		"message": taskErr.Error(),
	})
	return taskErr
}

// execTool passes a proposed call through the safety gate, executes the
// licensed call, and records the observation. A gate rejection or an
// execution failure becomes an error step for the planner to react to;
// execution failures are retried once before surfacing.
func (rt *runtime) execTool(ctx context.Context, call *tool.Call) {
	licensed, err := rt.runner.gate.Validate(rt.spec, *call)
	if err != nil {
		rt.runner.logger.Warn("tool call rejected",
			zap.String("task_id", rt.task.ID),
			zap.String("tool", call.Name),
			zap.String("kind", errorKind(err)),
		)
		rt.append(ctx, tracing.StepKindError, map[string]interface{}{
			"kind":    errorKind(err),
			"message": err.Error(),
			"tool":    call.Name,
		})
		return
	}
	defer licensed.Release()

	callID := GenerateCallID()
	rt.append(ctx, tracing.StepKindToolCall, map[string]interface{}{
		"call_id":   callID,
		"tool":      licensed.Descriptor.Name,
		"arguments": licensed.Arguments,
	})

	// Once licensed, the tool runs to completion on its own terms; the
	// engine never interrupts it mid-effect.
	out, err := licensed.Descriptor.Execute(ctx, licensed.Arguments)
	if err != nil {
		out, err = licensed.Descriptor.Execute(ctx, licensed.Arguments)
	}
	if err != nil {
		execErr := &ToolExecutionError{Tool: licensed.Descriptor.Name, Err: err}
		rt.append(ctx, tracing.StepKindError, map[string]interface{}{
			"kind":    errorKind(execErr),
			"message": execErr.Error(),
			"tool":    licensed.Descriptor.Name,
			"call_id": callID,
		})
		return
	}

	rt.append(ctx, tracing.StepKindObservation, map[string]interface{}{
		"call_id": callID,
		"tool":    licensed.Descriptor.Name,
		"result":  out,
	})
}

// planRequest assembles what the planner may see: this task's instruction
// and trace, and the agent's capability surface. A delegated task's request
// never includes any parent history.
func (rt *runtime) planRequest() *model.Request {
	var descriptors []*tool.Descriptor
	for _, desc := range rt.runner.tools.ForRole(rt.spec.Role) {
		if rt.spec.Allows(desc.Name) {
			descriptors = append(descriptors, desc)
		}
	}

	var delegates []model.DelegateInfo
	for _, role := range rt.spec.ManagedAgents {
		info := model.DelegateInfo{Role: role}
		if spec, err := rt.runner.agents.Resolve(role); err == nil {
			info.Description = spec.Description
		}
		delegates = append(delegates, info)
	}

	return &model.Request{
		AgentRole:       rt.spec.Role,
		Instructions:    rt.spec.Instructions,
		TaskInstruction: rt.task.Instruction,
		Steps:           rt.log.StepsForTask(rt.task.ID),
		Tools:           descriptors,
		Delegates:       delegates,
	}
}

// append records a step for this task and notifies hooks
func (rt *runtime) append(ctx context.Context, kind string, payload map[string]interface{}) {
	step := rt.log.Append(rt.task.ID, rt.spec.Role, kind, payload)
	rt.hooks.OnStep(ctx, rt.task, step)

	rt.runner.logger.Debug("step",
		zap.String("task_id", rt.task.ID),
		zap.String("agent_role", rt.spec.Role),
		zap.String("kind", kind),
		zap.Int("index", step.Index),
	)
}

// planPayload summarizes a planner action for the plan step record
func planPayload(action *model.Action) map[string]interface{} {
	payload := map[string]interface{}{"action": action.Kind}
	switch action.Kind {
	case model.ActionKindToolCall:
		payload["tool"] = action.ToolCall.Name
	case model.ActionKindDelegation:
		payload["agent"] = action.Delegation.AgentRole
	}
	return payload
}
