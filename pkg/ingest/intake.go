package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/billingkit/pkg/verifier"
)

// Enqueuer schedules an asynchronous dispatch of a stored inbound event.
// Scheduling is fire-and-forget with at-least-once execution semantics.
type Enqueuer interface {
	Enqueue(ctx context.Context, eventID uuid.UUID, delay time.Duration) error
}

// EnqueuerFunc adapts a plain function to the Enqueuer interface.
type EnqueuerFunc func(ctx context.Context, eventID uuid.UUID, delay time.Duration) error

func (f EnqueuerFunc) Enqueue(ctx context.Context, eventID uuid.UUID, delay time.Duration) error {
	return f(ctx, eventID, delay)
}

// Intake records verified webhook events and schedules their processing.
// It runs synchronously on the request path up to and including the
// dedupe-check-and-insert; everything after that is asynchronous.
type Intake struct {
	store    Store
	enqueuer Enqueuer
	log      *slog.Logger
}

// NewIntake creates an intake stage.
func NewIntake(store Store, enqueuer Enqueuer, log *slog.Logger) (*Intake, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if enqueuer == nil {
		return nil, ErrEnqueuerNil
	}
	if log == nil {
		log = slog.Default()
	}

	return &Intake{store: store, enqueuer: enqueuer, log: log}, nil
}

// Process stores the verified event and schedules its dispatch. A duplicate
// delivery of an already-stored provider event id is a pure no-op: no field
// is overwritten, no dispatch is scheduled, and the existing record is
// returned.
func (i *Intake) Process(ctx context.Context, ve verifier.Event) (*Event, error) {
	payload, err := json.Marshal(ve)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", ve.ID, err)
	}

	ev := &Event{
		ID:        uuid.New(),
		EventID:   ve.ID,
		EventType: ve.Type,
		Payload:   payload,
		Status:    StatusPending,
	}

	created, err := i.store.FindOrCreate(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("failed to store event %s: %w", ve.ID, err)
	}

	if !created {
		i.log.DebugContext(ctx, "duplicate event delivery ignored",
			slog.String("event_id", ev.EventID),
			slog.String("event_type", ev.EventType))
		return ev, nil
	}

	if err := i.enqueuer.Enqueue(ctx, ev.ID, 0); err != nil {
		return nil, fmt.Errorf("failed to enqueue dispatch for event %s: %w", ve.ID, err)
	}

	i.log.InfoContext(ctx, "inbound event accepted",
		slog.String("event_id", ev.EventID),
		slog.String("event_type", ev.EventType))

	return ev, nil
}
