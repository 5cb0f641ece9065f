package core

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus describes the lifecycle state of an orchestration task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Task represents one orchestration call as a first-class unit of work.
// It exists only for the duration of the call; nothing persists it.
type Task struct {
	ID         string
	Question   string
	Status     TaskStatus
	Result     string
	Error      string
	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewTask creates a task with a generated ID.
func NewTask(question string) *Task {
	return &Task{
		ID:        uuid.NewString(),
		Question:  question,
		Status:    TaskStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Start marks the task as running.
func (t *Task) Start() {
	t.Status = TaskStatusRunning
	t.StartedAt = time.Now().UTC()
}

// Complete marks the task as completed with its final answer.
func (t *Task) Complete(result string) {
	t.Status = TaskStatusCompleted
	t.Result = result
	t.FinishedAt = time.Now().UTC()
}

// Fail marks the task as failed.
func (t *Task) Fail(reason string) {
	t.Status = TaskStatusFailed
	t.Error = reason
	t.FinishedAt = time.Now().UTC()
}

// Cancel marks the task as cancelled, keeping any partial result.
func (t *Task) Cancel(reason string) {
	t.Status = TaskStatusCancelled
	t.Error = reason
	t.FinishedAt = time.Now().UTC()
}
