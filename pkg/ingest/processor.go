package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Processor is the queue-facing layer of the pipeline: it loads a stored
// event by id, dispatches it, and persists the status implied by the
// outcome. Execution is at-least-once; a redelivered job for an already
// processed event is dispatched again and terminates on the state-machine
// guards.
type Processor struct {
	store      Store
	dispatcher *Dispatcher
	log        *slog.Logger
}

// NewProcessor creates a processor.
// Panics if store or dispatcher is nil to fail fast during initialization.
func NewProcessor(store Store, dispatcher *Dispatcher, log *slog.Logger) *Processor {
	if store == nil {
		panic("ingest: Store is required")
	}
	if dispatcher == nil {
		panic("ingest: Dispatcher is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Processor{store: store, dispatcher: dispatcher, log: log}
}

// Handle processes one stored inbound event. The returned error reports
// storage faults only, so the job layer can retry them; dispatch outcomes
// are fully absorbed here.
//
// Outcome to status mapping: processed → processed with a processed-at
// timestamp, unhandled → unhandled, error and failed → failed. A
// rescheduled outcome writes nothing: the dispatcher has already
// incremented attempts and the status stays pending until a terminal
// attempt.
func (p *Processor) Handle(ctx context.Context, eventID uuid.UUID) error {
	ev, err := p.store.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load inbound event %s: %w", eventID, err)
	}

	switch outcome := p.dispatcher.Dispatch(ctx, ev); outcome {
	case OutcomeProcessed:
		now := time.Now().UTC()
		ev.Status = StatusProcessed
		ev.ProcessedAt = &now
		return p.update(ctx, ev)
	case OutcomeUnhandled:
		ev.Status = StatusUnhandled
		return p.update(ctx, ev)
	case OutcomeError, OutcomeFailed:
		ev.Status = StatusFailed
		return p.update(ctx, ev)
	case OutcomeRescheduled:
		// Status stays pending to indicate the event will be retried.
		p.log.InfoContext(ctx, "event rescheduled for later processing",
			slog.String("event_id", ev.EventID))
		return nil
	default:
		return fmt.Errorf("unknown dispatch outcome %q for event %s", outcome, ev.EventID)
	}
}

func (p *Processor) update(ctx context.Context, ev *Event) error {
	if err := p.store.Update(ctx, ev); err != nil {
		return fmt.Errorf("failed to update inbound event %s: %w", ev.EventID, err)
	}
	return nil
}
