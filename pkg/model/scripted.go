package model

import (
	"context"
	"fmt"
	"sync"
)

// ScriptedPlanner replays a fixed sequence of actions. It exists so the
// engine can be exercised deterministically in tests and examples.
type ScriptedPlanner struct {
	mu      sync.Mutex
	actions []*Action
	next    int

	// LoopLast repeats the final action forever instead of failing once the
	// script is exhausted. Useful for exercising step budgets.
	LoopLast bool
}

// NewScriptedPlanner creates a planner that returns the given actions in
// order
func NewScriptedPlanner(actions ...*Action) *ScriptedPlanner {
	return &ScriptedPlanner{actions: actions}
}

// Plan returns the next scripted action
func (p *ScriptedPlanner) Plan(ctx context.Context, req *Request) (*Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.next >= len(p.actions) {
		if p.LoopLast && len(p.actions) > 0 {
			return p.actions[len(p.actions)-1], nil
		}
		return nil, fmt.Errorf("scripted planner exhausted after %d actions", len(p.actions))
	}

	action := p.actions[p.next]
	p.next++
	return action, nil
}
