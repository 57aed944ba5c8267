// Package queue provides a storage-agnostic asynchronous task queue used to
// decouple webhook intake from event processing.
//
// The package is organised around two components:
//
//   - Enqueuer — adds one-time tasks, immediately or with a delay
//   - Worker   — claims pending tasks and dispatches them to a registered Handler
//
// Components interact only through small storage interfaces, keeping the
// queue logic decoupled from persistence. MemoryStorage backs tests and
// local development; any other engine can be plugged in by implementing the
// interfaces.
//
// Execution is at-least-once: a claimed task whose lock expires (for
// example because a worker died mid-task) becomes claimable again. There is
// no ordering guarantee between tasks.
//
// # Usage
//
//	type dispatchPayload struct {
//	    EventID uuid.UUID `json:"event_id"`
//	}
//
//	storage := queue.NewMemoryStorage()
//	enq, _ := queue.NewEnqueuer(storage)
//	_ = enq.Enqueue(ctx, dispatchPayload{EventID: id}, queue.WithDelay(5*time.Second))
//
//	w, _ := queue.NewWorker(storage)
//	_ = w.RegisterHandler(queue.NewHandler(func(ctx context.Context, p dispatchPayload) error {
//	    // process
//	    return nil
//	}))
//	_ = w.Start(ctx)
package queue
