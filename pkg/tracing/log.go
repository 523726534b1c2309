package tracing

import (
	"fmt"
	"sync"
	"time"
)

// SessionLog is the ordered, append-only record of every step across all
// tasks of one request. Steps within a task never interleave with each
// other, so reading a task's steps in order fully reconstructs its trace.
type SessionLog struct {
	mu      sync.Mutex
	steps   []Step
	perTask map[string]int    // next step index per task
	parents map[string]string // task id -> parent task id ("" for root)
	sink    Sink
}

// NewSessionLog creates an empty session log
func NewSessionLog() *SessionLog {
	return &SessionLog{
		perTask: make(map[string]int),
		parents: make(map[string]string),
	}
}

// WithSink attaches a sink that receives every appended step
func (l *SessionLog) WithSink(sink Sink) *SessionLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
	return l
}

// RegisterTask records a task and its parent in the call tree. The root
// task has parentID "".
func (l *SessionLog) RegisterTask(taskID, parentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.parents[taskID]; exists {
		return fmt.Errorf("task %q is already registered", taskID)
	}
	l.parents[taskID] = parentID
	return nil
}

// Append adds a step to the log, assigning its per-task index and timestamp
func (l *SessionLog) Append(taskID, agentRole, kind string, payload map[string]interface{}) Step {
	l.mu.Lock()
	defer l.mu.Unlock()

	step := Step{
		TaskID:    taskID,
		Index:     l.perTask[taskID],
		Kind:      kind,
		AgentRole: agentRole,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	l.perTask[taskID]++
	l.steps = append(l.steps, step)

	if l.sink != nil {
		l.sink.Write(step)
	}
	return step
}

// Steps returns a copy of all steps in creation order
func (l *SessionLog) Steps() []Step {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Step, len(l.steps))
	copy(out, l.steps)
	return out
}

// StepsForTask returns the steps of one task in order
func (l *SessionLog) StepsForTask(taskID string) []Step {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Step
	for _, step := range l.steps {
		if step.TaskID == taskID {
			out = append(out, step)
		}
	}
	return out
}

// ParentTask returns the parent of a task and whether the task is known
func (l *SessionLog) ParentTask(taskID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	parent, ok := l.parents[taskID]
	return parent, ok
}

// ChildTasks returns the tasks delegated by the given task, in registration
// order of their first appearance in the log
func (l *SessionLog) ChildTasks(taskID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []string
	seen := make(map[string]bool)
	for _, step := range l.steps {
		if seen[step.TaskID] {
			continue
		}
		seen[step.TaskID] = true
		if l.parents[step.TaskID] == taskID {
			out = append(out, step.TaskID)
		}
	}
	// Registered but not yet traced children still belong to the tree.
	for child, parent := range l.parents {
		if parent == taskID && !seen[child] {
			out = append(out, child)
		}
	}
	return out
}
