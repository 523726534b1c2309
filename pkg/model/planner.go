package model

import (
	"context"

	"fileagents/pkg/tool"
	"fileagents/pkg/tracing"
)

// Action kinds
const (
	ActionKindToolCall    = "tool_call"
	ActionKindDelegation  = "delegation"
	ActionKindFinalAnswer = "final_answer"
)

// Delegation asks to hand a sub-task to a managed agent
type Delegation struct {
	// AgentRole is the target managed agent
	AgentRole string

	// Instruction is the sub-task text; it is the only context the child
	// agent receives
	Instruction string
}

// Action is the single decision a planner returns per invocation: exactly
// one of ToolCall, Delegation or FinalAnswer is set, selected by Kind.
type Action struct {
	Kind        string
	ToolCall    *tool.Call
	Delegation  *Delegation
	FinalAnswer string
}

// NewToolCallAction builds a tool-call action
func NewToolCallAction(name string, args map[string]interface{}) *Action {
	return &Action{
		Kind:     ActionKindToolCall,
		ToolCall: &tool.Call{Name: name, Arguments: args},
	}
}

// NewDelegationAction builds a delegation action
func NewDelegationAction(role, instruction string) *Action {
	return &Action{
		Kind:       ActionKindDelegation,
		Delegation: &Delegation{AgentRole: role, Instruction: instruction},
	}
}

// NewFinalAnswerAction builds a final-answer action
func NewFinalAnswerAction(answer string) *Action {
	return &Action{
		Kind:        ActionKindFinalAnswer,
		FinalAnswer: answer,
	}
}

// DelegateInfo describes a managed agent the planner may delegate to
type DelegateInfo struct {
	Role        string
	Description string
}

// Request carries everything a planner may see when choosing the next
// action: the task instruction, the task's own prior steps, and the
// capability surface of the agent. Nothing from a parent task's history is
// ever included.
type Request struct {
	// AgentRole is the role of the reasoning agent
	AgentRole string

	// Instructions is the agent's system prompt
	Instructions string

	// TaskInstruction is the instruction text of the current task
	TaskInstruction string

	// Steps is the prior trace of this task only
	Steps []tracing.Step

	// Tools are the descriptors the agent is allowed to call
	Tools []*tool.Descriptor

	// Delegates are the managed agents the agent may delegate to
	Delegates []DelegateInfo
}

// Planner produces the next action for a task. It is the only
// non-deterministic part of the engine and is treated as a pure external
// dependency: one invocation, one action, no retries by the engine.
type Planner interface {
	Plan(ctx context.Context, req *Request) (*Action, error)
}

// PlanFunc adapts a function to the Planner interface
type PlanFunc func(ctx context.Context, req *Request) (*Action, error)

// Plan calls the function
func (f PlanFunc) Plan(ctx context.Context, req *Request) (*Action, error) {
	return f(ctx, req)
}
