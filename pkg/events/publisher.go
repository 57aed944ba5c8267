package events

import (
	"context"
	"log/slog"
	"sync"
)

// Subscriber handles a published domain event.
// Implementations must tolerate being invoked with no ordering guarantee
// relative to persistence completion elsewhere in the system.
type Subscriber interface {
	Handle(ctx context.Context, event Event) error
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc func(ctx context.Context, event Event) error

func (f SubscriberFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Publisher fans out domain events to subscribers registered per event type.
// Subscribers for a type are invoked synchronously in registration order.
// All methods are safe for concurrent use, though in normal operation the
// registry is only mutated at composition time; Clear exists for test
// isolation and must not race with Publish in production.
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[Type][]Subscriber
	log         *slog.Logger
}

// NewPublisher creates a publisher. A nil logger falls back to slog.Default.
func NewPublisher(log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		subscribers: make(map[Type][]Subscriber),
		log:         log,
	}
}

// Subscribe registers a subscriber for an event type. Multiple subscribers
// per type are allowed; nil subscribers are ignored.
func (p *Publisher) Subscribe(t Type, sub Subscriber) {
	if sub == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers[t] = append(p.subscribers[t], sub)
}

// Publish delivers the event to every subscriber registered for its type.
// A failing or panicking subscriber is logged and skipped; delivery continues
// with the remaining subscribers and Publish always returns normally.
// An event type with zero registrations is a no-op.
func (p *Publisher) Publish(ctx context.Context, event Event) {
	if event == nil {
		return
	}

	p.mu.RLock()
	subs := p.subscribers[event.EventType()]
	p.mu.RUnlock()

	for _, sub := range subs {
		p.deliver(ctx, sub, event)
	}
}

// Clear empties the registry. Intended for test isolation.
func (p *Publisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	clear(p.subscribers)
}

func (p *Publisher) deliver(ctx context.Context, sub Subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			p.log.ErrorContext(ctx, "panic delivering event",
				slog.String("event_type", string(event.EventType())),
				slog.String("event_id", event.EventID().String()),
				slog.Any("panic", r))
		}
	}()

	if err := sub.Handle(ctx, event); err != nil {
		p.log.ErrorContext(ctx, "error delivering event",
			slog.String("event_type", string(event.EventType())),
			slog.String("event_id", event.EventID().String()),
			slog.String("error", err.Error()))
	}
}

// NewLogSubscriber returns a subscriber that logs every event it receives.
// It is the default audit listener wired in by the composition root.
func NewLogSubscriber(log *slog.Logger) Subscriber {
	if log == nil {
		log = slog.Default()
	}
	return SubscriberFunc(func(ctx context.Context, event Event) error {
		log.InfoContext(ctx, "event published",
			slog.String("event_type", string(event.EventType())),
			slog.String("event_id", event.EventID().String()),
			slog.Any("event", event))
		return nil
	})
}
