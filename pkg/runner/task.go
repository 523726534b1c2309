package runner

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Task is one reasoning loop instance: the root request or a delegated
// sub-task. Tasks are immutable once created and live for the duration of
// their loop.
type Task struct {
	// ID uniquely identifies the task within its session
	ID string

	// AgentRole is the role of the agent reasoning over the task
	AgentRole string

	// Instruction is the task text. For delegated tasks this is the only
	// context inherited from the parent.
	Instruction string

	// ParentID is the delegating task, "" for the root task
	ParentID string

	// CreatedAt is the creation time of the task
	CreatedAt time.Time
}

// NewTask creates a task for the given role and instruction
func NewTask(role, instruction, parentID string) *Task {
	return &Task{
		ID:          GenerateTaskID(),
		AgentRole:   role,
		Instruction: instruction,
		ParentID:    parentID,
		CreatedAt:   time.Now(),
	}
}

// IsRoot reports whether the task has no parent
func (t *Task) IsRoot() bool {
	return t.ParentID == ""
}

// GenerateTaskID generates a unique task ID
func GenerateTaskID() string {
	return generateID("task")
}

// GenerateCallID generates a unique tool-call ID
func GenerateCallID() string {
	return generateID("call")
}

func generateID(prefix string) string {
	b := make([]byte, 8)
	_, err := rand.Read(b)
	if err != nil {
		// Fall back to a timestamp-based ID if crypto/rand fails
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%x", prefix, b)
}
