package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/ingest"
)

// PostgresEventStore implements ingest.Store on the stripe_events table.
// The unique index on event_id is what makes FindOrCreate race-safe: a
// concurrent insert of the same provider event id surfaces as a unique
// violation and is resolved by re-reading the winner's row.
type PostgresEventStore struct {
	pool *pgxpool.Pool
}

// NewPostgresEventStore creates a store backed by the given pool.
func NewPostgresEventStore(pool *pgxpool.Pool) (*PostgresEventStore, error) {
	if pool == nil {
		return nil, ErrPoolNil
	}
	return &PostgresEventStore{pool: pool}, nil
}

func (s *PostgresEventStore) FindOrCreate(ctx context.Context, ev *ingest.Event) (bool, error) {
	existing, err := s.findByEventID(ctx, ev.EventID)
	if err != nil && !errors.Is(err, ingest.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		*ev = *existing
		return false, nil
	}

	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	_, err = s.pool.Exec(ctx, `
		INSERT INTO stripe_events (id, event_id, event_type, payload, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID, ev.EventID, ev.EventType, ev.Payload, ev.Status, ev.Attempts, ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Lost the insert race; the concurrent delivery owns the record.
			existing, findErr := s.findByEventID(ctx, ev.EventID)
			if findErr != nil {
				return false, findErr
			}
			*ev = *existing
			return false, nil
		}
		return false, fmt.Errorf("failed to insert event %s: %w", ev.EventID, err)
	}

	return true, nil
}

func (s *PostgresEventStore) FindByID(ctx context.Context, id uuid.UUID) (*ingest.Event, error) {
	return s.findOne(ctx, "id = $1", id)
}

func (s *PostgresEventStore) Update(ctx context.Context, ev *ingest.Event) error {
	ev.UpdatedAt = time.Now().UTC()

	tag, err := s.pool.Exec(ctx, `
		UPDATE stripe_events
		SET status = $2, attempts = $3, processed_at = $4, updated_at = $5
		WHERE id = $1`,
		ev.ID, ev.Status, ev.Attempts, ev.ProcessedAt, ev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", ev.EventID, err)
	}
	if tag.RowsAffected() == 0 {
		return ingest.ErrNotFound
	}

	return nil
}

func (s *PostgresEventStore) findByEventID(ctx context.Context, eventID string) (*ingest.Event, error) {
	return s.findOne(ctx, "event_id = $1", eventID)
}

func (s *PostgresEventStore) findOne(ctx context.Context, where string, arg any) (*ingest.Event, error) {
	var ev ingest.Event
	err := s.pool.QueryRow(ctx, `
		SELECT id, event_id, event_type, payload, status, attempts, processed_at, created_at, updated_at
		FROM stripe_events
		WHERE `+where,
		arg).Scan(&ev.ID, &ev.EventID, &ev.EventType, &ev.Payload, &ev.Status, &ev.Attempts,
		&ev.ProcessedAt, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ingest.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query event: %w", err)
	}

	return &ev, nil
}
