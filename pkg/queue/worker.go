package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WorkerStorage defines the storage operations needed by a worker.
type WorkerStorage interface {
	// ClaimTask atomically claims the next due pending task, locking it
	// for lockDuration. Returns ErrNoTaskToClaim when nothing is due.
	ClaimTask(ctx context.Context, workerID uuid.UUID, lockDuration time.Duration) (*Task, error)

	// CompleteTask marks a claimed task as completed.
	CompleteTask(ctx context.Context, taskID uuid.UUID) error

	// FailTask marks a claimed task as failed, recording the error.
	FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error
}

// Worker claims pending tasks and dispatches them to registered handlers.
// Tasks whose handler returns an error are marked failed at the queue level;
// any retry semantics belong to the handler's own domain.
type Worker struct {
	storage  WorkerStorage
	handlers map[string]Handler
	workerID uuid.UUID
	mu       sync.RWMutex
	wg       sync.WaitGroup

	pullInterval time.Duration
	lockTimeout  time.Duration
	log          *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// WorkerOption is a functional option for configuring a Worker.
type WorkerOption func(*Worker)

// WithPullInterval sets how often the worker polls for due tasks.
func WithPullInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pullInterval = d
		}
	}
}

// WithLockTimeout sets how long a claimed task stays locked before it
// becomes claimable again.
func WithLockTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.lockTimeout = d
		}
	}
}

// WithLogger sets the worker's logger.
func WithLogger(log *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWorker creates a new task worker.
func NewWorker(storage WorkerStorage, opts ...WorkerOption) (*Worker, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	w := &Worker{
		storage:      storage,
		handlers:     make(map[string]Handler),
		workerID:     uuid.New(),
		pullInterval: time.Second,
		lockTimeout:  time.Minute,
		log:          slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// RegisterHandler registers a task handler by its name. Nil handlers are
// ignored; a later registration for the same name replaces the earlier one.
func (w *Worker) RegisterHandler(handler Handler) error {
	if handler == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.handlers[handler.Name()] = handler
	return nil
}

// Start begins processing tasks in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return fmt.Errorf("worker already started")
	}
	if len(w.handlers) == 0 {
		w.mu.Unlock()
		return ErrNoHandlers
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()

	w.log.Info("queue worker started",
		slog.String("worker_id", w.workerID.String()),
		slog.Duration("pull_interval", w.pullInterval))

	return nil
}

// Stop gracefully shuts down the worker, waiting for the in-flight task.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return fmt.Errorf("worker not started")
	}
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()

	w.log.Info("queue worker stopped", slog.String("worker_id", w.workerID.String()))
	return nil
}

// run is the main processing loop. Tasks are processed one at a time: the
// queue has single global queue semantics with no ordering guarantee beyond
// the ScheduledAt ordering the storage applies when claiming.
func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if err := w.pullAndProcess(); err != nil {
				w.log.Error("failed to process task",
					slog.String("worker_id", w.workerID.String()),
					slog.String("error", err.Error()))
			}
		}
	}
}

func (w *Worker) pullAndProcess() error {
	task, err := w.storage.ClaimTask(w.ctx, w.workerID, w.lockTimeout)
	if err != nil {
		if errors.Is(err, ErrNoTaskToClaim) {
			return nil
		}
		return fmt.Errorf("failed to claim task: %w", err)
	}

	return w.processTask(task)
}

func (w *Worker) processTask(task *Task) error {
	w.mu.RLock()
	handler, ok := w.handlers[task.Name]
	w.mu.RUnlock()

	if !ok {
		if err := w.storage.FailTask(w.ctx, task.ID, "no handler registered for task name: "+task.Name); err != nil {
			return fmt.Errorf("failed to mark task %s as failed: %w", task.ID, err)
		}
		return ErrHandlerNotFound
	}

	// Detach from the worker lifecycle so a graceful shutdown lets the
	// in-flight task finish.
	ctx, cancel := context.WithTimeout(context.Background(), w.lockTimeout)
	defer cancel()

	if err := w.execute(ctx, handler, task.Payload); err != nil {
		w.log.Error("task failed",
			slog.String("worker_id", w.workerID.String()),
			slog.String("task_id", task.ID.String()),
			slog.String("task_name", task.Name),
			slog.String("error", err.Error()))

		if failErr := w.storage.FailTask(w.ctx, task.ID, err.Error()); failErr != nil {
			return fmt.Errorf("failed to mark task %s as failed: %w", task.ID, failErr)
		}
		return nil
	}

	if err := w.storage.CompleteTask(w.ctx, task.ID); err != nil {
		return fmt.Errorf("failed to mark task %s as completed: %w", task.ID, err)
	}

	return nil
}

// execute runs the handler with panic recovery so a programming error in a
// handler cannot crash the worker loop.
func (w *Worker) execute(ctx context.Context, handler Handler, payload []byte) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("panic in handler: %v", r)
		}
	}()

	return handler.Handle(ctx, payload)
}
