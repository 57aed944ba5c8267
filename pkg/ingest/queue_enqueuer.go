package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/queue"
)

// DispatchTask is the queue payload scheduling a dispatch of one stored
// inbound event. The task name derived from this type ties the enqueuer
// and the worker handler together.
type DispatchTask struct {
	EventID uuid.UUID `json:"event_id"`
}

// QueueEnqueuer implements Enqueuer on top of the task queue.
type QueueEnqueuer struct {
	enqueuer *queue.Enqueuer
}

// NewQueueEnqueuer wraps a queue.Enqueuer as an ingest Enqueuer.
func NewQueueEnqueuer(enqueuer *queue.Enqueuer) (*QueueEnqueuer, error) {
	if enqueuer == nil {
		return nil, ErrEnqueuerNil
	}
	return &QueueEnqueuer{enqueuer: enqueuer}, nil
}

// Enqueue schedules a DispatchTask, optionally delayed.
func (q *QueueEnqueuer) Enqueue(ctx context.Context, eventID uuid.UUID, delay time.Duration) error {
	opts := []queue.EnqueueOption{}
	if delay > 0 {
		opts = append(opts, queue.WithDelay(delay))
	}
	return q.enqueuer.Enqueue(ctx, DispatchTask{EventID: eventID}, opts...)
}

// NewDispatchHandler returns the queue handler that feeds DispatchTask jobs
// into the processor. Register it on the worker that serves the intake's
// queue.
func NewDispatchHandler(processor *Processor) queue.Handler {
	return queue.NewHandler(func(ctx context.Context, task DispatchTask) error {
		return processor.Handle(ctx, task.EventID)
	})
}
