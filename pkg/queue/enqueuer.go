package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnqueuerStorage defines the storage operations needed to enqueue tasks.
type EnqueuerStorage interface {
	CreateTask(ctx context.Context, task *Task) error
}

// Enqueuer adds tasks to the queue. Enqueueing is fire-and-forget: once the
// task row exists, delivery to a handler is the worker's responsibility.
type Enqueuer struct {
	storage EnqueuerStorage
}

// NewEnqueuer creates a new Enqueuer.
func NewEnqueuer(storage EnqueuerStorage) (*Enqueuer, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}
	return &Enqueuer{storage: storage}, nil
}

// EnqueueOption is a functional option for the Enqueue method.
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	delay    time.Duration
	taskName string
}

// WithDelay defers the task's earliest execution by the given duration.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		if delay > 0 {
			o.delay = delay
		}
	}
}

// WithTaskName overrides the task name derived from the payload type.
func WithTaskName(name string) EnqueueOption {
	return func(o *enqueueOptions) {
		if name != "" {
			o.taskName = name
		}
	}
}

// Enqueue adds a new task to the queue.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any, opts ...EnqueueOption) error {
	if payload == nil {
		return ErrPayloadNil
	}

	options := &enqueueOptions{}
	for _, opt := range opts {
		opt(options)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload of type %T: %w", payload, err)
	}

	name := options.taskName
	if name == "" {
		name = qualifiedStructName(payload)
	}

	now := time.Now()
	task := &Task{
		ID:          uuid.New(),
		Name:        name,
		Payload:     payloadBytes,
		Status:      TaskStatusPending,
		ScheduledAt: now.Add(options.delay),
		CreatedAt:   now,
	}

	if err := e.storage.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("failed to create task %q: %w", task.Name, err)
	}

	return nil
}
