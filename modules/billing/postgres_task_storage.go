package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/queue"
)

// PostgresTaskStorage implements the queue storage interfaces on the
// billing_tasks table, so scheduled dispatches survive process restarts.
// Claiming uses FOR UPDATE SKIP LOCKED so multiple workers never double-claim
// a task within a lock window; an expired lock makes the task claimable again.
type PostgresTaskStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskStorage creates a task storage backed by the given pool.
func NewPostgresTaskStorage(pool *pgxpool.Pool) (*PostgresTaskStorage, error) {
	if pool == nil {
		return nil, ErrPoolNil
	}
	return &PostgresTaskStorage{pool: pool}, nil
}

func (s *PostgresTaskStorage) CreateTask(ctx context.Context, task *queue.Task) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO billing_tasks (id, name, payload, status, scheduled_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.Name, task.Payload, task.Status, task.ScheduledAt, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task %q: %w", task.Name, err)
	}

	return nil
}

func (s *PostgresTaskStorage) ClaimTask(ctx context.Context, workerID uuid.UUID, lockDuration time.Duration) (*queue.Task, error) {
	lockedUntil := time.Now().UTC().Add(lockDuration)

	var task queue.Task
	err := s.pool.QueryRow(ctx, `
		UPDATE billing_tasks
		SET status = $2, locked_until = $3, locked_by = $4
		WHERE id = (
			SELECT id FROM billing_tasks
			WHERE (status = $1 AND scheduled_at <= now())
			   OR (status = $2 AND locked_until <= now())
			ORDER BY scheduled_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, name, payload, status, scheduled_at, locked_until, processed_at, error, created_at`,
		queue.TaskStatusPending, queue.TaskStatusProcessing, lockedUntil, workerID).
		Scan(&task.ID, &task.Name, &task.Payload, &task.Status, &task.ScheduledAt,
			&task.LockedUntil, &task.ProcessedAt, &task.Error, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, queue.ErrNoTaskToClaim
		}
		return nil, fmt.Errorf("failed to claim task: %w", err)
	}

	return &task, nil
}

func (s *PostgresTaskStorage) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	return s.finishTask(ctx, taskID, queue.TaskStatusCompleted, nil)
}

func (s *PostgresTaskStorage) FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error {
	return s.finishTask(ctx, taskID, queue.TaskStatusFailed, &errorMsg)
}

func (s *PostgresTaskStorage) finishTask(ctx context.Context, taskID uuid.UUID, status queue.TaskStatus, errorMsg *string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE billing_tasks
		SET status = $2, error = $3, processed_at = now(), locked_until = NULL
		WHERE id = $1`,
		taskID, status, errorMsg)
	if err != nil {
		return fmt.Errorf("failed to mark task %s as %s: %w", taskID, status, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s not found", taskID)
	}

	return nil
}
