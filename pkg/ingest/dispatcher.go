package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/billingkit/pkg/result"
	"github.com/dmitrymomot/billingkit/pkg/subscription"
)

// Retry policy for business-rule failures. The count is total attempts
// (the initial one plus four retries) and the delay is fixed: with a bounded
// attempt count there is nothing to gain from backoff or jitter here.
const (
	MaxAttempts = 5
	RetryDelay  = 5 * time.Second
)

// Outcome classifies a single dispatch attempt.
type Outcome string

const (
	// OutcomeProcessed means the routed operation succeeded.
	OutcomeProcessed Outcome = "processed"
	// OutcomeUnhandled means the event type is not recognized; nothing was
	// invoked and nothing will be retried.
	OutcomeUnhandled Outcome = "unhandled"
	// OutcomeRescheduled means a business-rule failure was recorded and a
	// delayed reprocessing of the same event has been scheduled.
	OutcomeRescheduled Outcome = "rescheduled"
	// OutcomeFailed means a business-rule failure exhausted the attempt
	// budget.
	OutcomeFailed Outcome = "failed"
	// OutcomeError means an unexpected error escaped the routed operation.
	// This is terminal: only business-rule failures are retryable.
	OutcomeError Outcome = "error"
)

// SubscriptionService is the set of domain operations inbound events route
// to. Satisfied by *subscription.Service.
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, id, customerID string) (result.Result[*subscription.Subscription], error)
	MarkSubscriptionAsPaid(ctx context.Context, subscriptionID string) (result.Result[*subscription.Subscription], error)
	CancelSubscription(ctx context.Context, subscriptionID string) (result.Result[*subscription.Subscription], error)
}

// Dispatcher routes stored inbound events to subscription operations and
// classifies each attempt's outcome. It owns the attempts counter on the
// event record; the persisted status is the caller's responsibility.
type Dispatcher struct {
	service  SubscriptionService
	store    Store
	enqueuer Enqueuer
	log      *slog.Logger
}

// NewDispatcher creates a dispatcher.
// Panics if service, store, or enqueuer is nil to fail fast during
// initialization.
func NewDispatcher(service SubscriptionService, store Store, enqueuer Enqueuer, log *slog.Logger) *Dispatcher {
	if service == nil {
		panic("ingest: SubscriptionService is required")
	}
	if store == nil {
		panic("ingest: Store is required")
	}
	if enqueuer == nil {
		panic("ingest: Enqueuer is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{service: service, store: store, enqueuer: enqueuer, log: log}
}

// Dispatch routes the event to its domain operation and classifies the
// outcome. Unexpected errors and panics anywhere in the routed call are
// logged with the event's provider id and classified as OutcomeError; they
// never escape to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) Outcome {
	res, routed, err := d.route(ctx, ev)
	if err != nil {
		d.log.ErrorContext(ctx, "error processing event",
			slog.String("event_id", ev.EventID),
			slog.String("event_type", ev.EventType),
			slog.String("error", err.Error()))
		return OutcomeError
	}
	if !routed {
		d.log.WarnContext(ctx, "unhandled event type",
			slog.String("event_id", ev.EventID),
			slog.String("event_type", ev.EventType))
		return OutcomeUnhandled
	}

	return d.classify(ctx, res, ev)
}

// route invokes the use case matching the event kind. The routed flag is
// false when the event type is not recognized. Panics inside the routed
// call are recovered and surfaced as errors.
func (d *Dispatcher) route(ctx context.Context, ev *Event) (res result.Result[*subscription.Subscription], routed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic processing event: %v", r)
		}
	}()

	switch ev.Kind() {
	case KindSubscriptionCreated:
		obj, objErr := dataObject(ev.Payload)
		if objErr != nil {
			return res, true, objErr
		}
		id, idErr := stringField(obj, "id")
		if idErr != nil {
			return res, true, idErr
		}
		customerID, custErr := stringField(obj, "customer")
		if custErr != nil {
			return res, true, custErr
		}
		res, err = d.service.CreateSubscription(ctx, id, customerID)
		return res, true, err

	case KindPaymentSucceeded:
		obj, objErr := dataObject(ev.Payload)
		if objErr != nil {
			return res, true, objErr
		}
		subID, subErr := stringField(obj, "subscription")
		if subErr != nil {
			return res, true, subErr
		}
		res, err = d.service.MarkSubscriptionAsPaid(ctx, subID)
		return res, true, err

	case KindSubscriptionDeleted:
		obj, objErr := dataObject(ev.Payload)
		if objErr != nil {
			return res, true, objErr
		}
		id, idErr := stringField(obj, "id")
		if idErr != nil {
			return res, true, idErr
		}
		res, err = d.service.CancelSubscription(ctx, id)
		return res, true, err
	}

	return res, false, nil
}

// classify turns a routed call's Result into an Outcome, applying the retry
// policy to business-rule failures. On a reschedule the attempts counter is
// incremented and persisted while the status stays pending; the status
// write for terminal outcomes belongs to the processor layer.
func (d *Dispatcher) classify(ctx context.Context, res result.Result[*subscription.Subscription], ev *Event) Outcome {
	if res.Success() {
		return OutcomeProcessed
	}

	if ev.Attempts+1 < MaxAttempts {
		ev.Attempts++
		if err := d.store.Update(ctx, ev); err != nil {
			d.log.ErrorContext(ctx, "error processing event",
				slog.String("event_id", ev.EventID),
				slog.String("error", err.Error()))
			return OutcomeError
		}
		if err := d.enqueuer.Enqueue(ctx, ev.ID, RetryDelay); err != nil {
			d.log.ErrorContext(ctx, "error processing event",
				slog.String("event_id", ev.EventID),
				slog.String("error", err.Error()))
			return OutcomeError
		}

		d.log.InfoContext(ctx, "event dispatch rescheduled",
			slog.String("event_id", ev.EventID),
			slog.Int("attempts", ev.Attempts),
			slog.String("failure", res.Err()))
		return OutcomeRescheduled
	}

	d.log.WarnContext(ctx, "event dispatch exhausted attempts",
		slog.String("event_id", ev.EventID),
		slog.Int("attempts", ev.Attempts),
		slog.String("failure", res.Err()))
	return OutcomeFailed
}

// dataObject extracts the nested "data.object" document from the stored
// provider payload.
func dataObject(payload json.RawMessage) (map[string]any, error) {
	var envelope struct {
		Data struct {
			Object map[string]any `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("malformed event payload: %w", err)
	}
	return envelope.Data.Object, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("payload field %q is missing or not a string", key)
	}
	return v, nil
}
