package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the processing state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task is a unit of asynchronous work. Once persisted a task is immutable
// apart from its status, lock, and processing bookkeeping.
type Task struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Status      TaskStatus      `json:"status"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	LockedUntil *time.Time      `json:"locked_until,omitempty"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
