package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements the queue storage interfaces for testing and
// local development. All methods are safe for concurrent use.
type MemoryStorage struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*Task
}

// NewMemoryStorage creates a new in-memory storage implementation.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks: make(map[uuid.UUID]*Task),
	}
}

// CreateTask implements EnqueuerStorage.
func (ms *MemoryStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.tasks[task.ID]; exists {
		return fmt.Errorf("task with ID %s already exists", task.ID)
	}

	// Clone to prevent external modifications.
	taskCopy := *task
	ms.tasks[task.ID] = &taskCopy

	return nil
}

// ClaimTask implements WorkerStorage. The earliest due pending task wins.
// Tasks whose lock has expired are considered pending again, giving the
// queue its at-least-once semantics.
func (ms *MemoryStorage) ClaimTask(ctx context.Context, workerID uuid.UUID, lockDuration time.Duration) (*Task, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var best *Task

	for _, task := range ms.tasks {
		claimable := task.Status == TaskStatusPending ||
			(task.Status == TaskStatusProcessing && task.LockedUntil != nil && task.LockedUntil.Before(now))
		if !claimable {
			continue
		}
		if task.ScheduledAt.After(now) {
			continue
		}
		if best == nil || task.ScheduledAt.Before(best.ScheduledAt) {
			best = task
		}
	}

	if best == nil {
		return nil, ErrNoTaskToClaim
	}

	lockUntil := now.Add(lockDuration)
	best.Status = TaskStatusProcessing
	best.LockedUntil = &lockUntil

	taskCopy := *best
	return &taskCopy, nil
}

// CompleteTask implements WorkerStorage.
func (ms *MemoryStorage) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	task, exists := ms.tasks[taskID]
	if !exists {
		return fmt.Errorf("task %s not found", taskID)
	}
	if task.Status != TaskStatusProcessing {
		return fmt.Errorf("task %s is not in processing state", taskID)
	}

	now := time.Now()
	task.Status = TaskStatusCompleted
	task.ProcessedAt = &now
	task.LockedUntil = nil

	return nil
}

// FailTask implements WorkerStorage.
func (ms *MemoryStorage) FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	task, exists := ms.tasks[taskID]
	if !exists {
		return fmt.Errorf("task %s not found", taskID)
	}
	if task.Status != TaskStatusProcessing {
		return fmt.Errorf("task %s is not in processing state", taskID)
	}

	task.Status = TaskStatusFailed
	task.Error = &errorMsg
	task.LockedUntil = nil

	return nil
}

// Tasks returns a snapshot of all stored tasks. Useful in tests.
func (ms *MemoryStorage) Tasks() []Task {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]Task, 0, len(ms.tasks))
	for _, task := range ms.tasks {
		out = append(out, *task)
	}
	return out
}
