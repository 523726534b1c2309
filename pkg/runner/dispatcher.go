package runner

import (
	"context"

	"go.uber.org/zap"

	"fileagents/pkg/agent"
	"fileagents/pkg/model"
	"fileagents/pkg/tracing"
)

// delegate hands a sub-task to a managed agent and blocks until the child
// task reaches DONE or FAILED. The child gets a fresh runtime scoped to its
// own spec and sees nothing of the parent's history beyond the
// sub-instruction. A failed child surfaces to the parent as a typed error
// in the delegation result, never as an empty success.
func (rt *runtime) delegate(ctx context.Context, del *model.Delegation) {
	if !rt.spec.Manages(del.AgentRole) {
		err := &agent.UnknownAgentError{Role: del.AgentRole}
		rt.append(ctx, tracing.StepKindError, map[string]interface{}{
			"kind":    errorKind(err),
			"message": err.Error(),
			"agent":   del.AgentRole,
		})
		return
	}

	childSpec, err := rt.runner.agents.Resolve(del.AgentRole)
	if err != nil {
		rt.append(ctx, tracing.StepKindError, map[string]interface{}{
			"kind":    errorKind(err),
			"message": err.Error(),
			"agent":   del.AgentRole,
		})
		return
	}

	callID := GenerateCallID()
	child := NewTask(del.AgentRole, del.Instruction, rt.task.ID)
	if err := rt.log.RegisterTask(child.ID, rt.task.ID); err != nil {
		rt.append(ctx, tracing.StepKindError, map[string]interface{}{
			"kind":    errorKind(err),
			"message": err.Error(),
			"agent":   del.AgentRole,
		})
		return
	}

	rt.append(ctx, tracing.StepKindDelegationCall, map[string]interface{}{
		"call_id":       callID,
		"agent":         del.AgentRole,
		"instruction":   del.Instruction,
		"child_task_id": child.ID,
	})

	rt.runner.logger.Info("delegating",
		zap.String("task_id", rt.task.ID),
		zap.String("child_task_id", child.ID),
		zap.String("agent_role", del.AgentRole),
	)

	childRt := &runtime{
		runner: rt.runner,
		spec:   childSpec,
		task:   child,
		log:    rt.log,
		hooks:  rt.hooks,
	}

	rt.hooks.OnTaskStart(ctx, child)
	answer, err := childRt.run(ctx)
	rt.hooks.OnTaskEnd(ctx, child, answer, err)

	if err != nil {
		rt.append(ctx, tracing.StepKindDelegationResult, map[string]interface{}{
			"call_id":       callID,
			"agent":         del.AgentRole,
			"child_task_id": child.ID,
			"error_kind":    errorKind(err),
			"error":         err.Error(),
		})
		return
	}

	rt.append(ctx, tracing.StepKindDelegationResult, map[string]interface{}{
		"call_id":       callID,
		"agent":         del.AgentRole,
		"child_task_id": child.ID,
		"answer":        answer,
	})
}
