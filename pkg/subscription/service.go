package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/billingkit/pkg/events"
	"github.com/dmitrymomot/billingkit/pkg/result"
)

const msgNotFound = "Subscription not found"

// Publisher announces domain events produced by the service.
// Satisfied by *events.Publisher.
type Publisher interface {
	Publish(ctx context.Context, event events.Event)
}

// ValidatorFactory produces a fresh Validator per operation. The default
// StateValidator accumulates errors between calls, so each operation gets
// its own instance.
type ValidatorFactory func() Validator

// Service orchestrates entity mutation, persistence, and event publication
// as one logical unit per use case. The unit is not transactional across
// store and publish: a publish may be observed before or without the
// corresponding row being visible elsewhere.
type Service struct {
	store      Store
	publisher  Publisher
	validators ValidatorFactory
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithValidatorFactory substitutes the transition rule set used by the
// service. Nil factories are ignored.
func WithValidatorFactory(f ValidatorFactory) ServiceOption {
	return func(s *Service) {
		if f != nil {
			s.validators = f
		}
	}
}

// NewService creates a subscription service.
// Panics if store or publisher is nil to fail fast during initialization.
func NewService(store Store, publisher Publisher, opts ...ServiceOption) *Service {
	if store == nil {
		panic("subscription: Store is required")
	}
	if publisher == nil {
		panic("subscription: Publisher is required")
	}

	s := &Service{
		store:      store,
		publisher:  publisher,
		validators: func() Validator { return NewStateValidator() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateSubscription constructs a new subscription forced to the unpaid
// status regardless of any status implied by caller input, persists it, and
// publishes a SubscriptionCreated event. No existence check is performed: a
// second create for the same id is an upsert via Save.
//
// The returned error reports storage faults only; business outcomes travel
// in the Result.
func (s *Service) CreateSubscription(ctx context.Context, id, customerID string) (result.Result[*Subscription], error) {
	sub := New(id, customerID)

	if err := s.store.Save(ctx, sub); err != nil {
		return result.Result[*Subscription]{}, fmt.Errorf("failed to save subscription %s: %w", id, err)
	}

	s.publisher.Publish(ctx, events.NewSubscriptionCreated(sub.ID, sub.CustomerID, string(sub.Status)))

	return result.OK(sub), nil
}

// MarkSubscriptionAsPaid loads the subscription and applies the paid
// transition. A missing subscription short-circuits with a failure before
// any entity involvement. On a successful transition the entity is persisted
// and a PaymentSucceeded event is published; on a rule violation nothing is
// persisted or published and the inner transition result is returned
// unchanged.
func (s *Service) MarkSubscriptionAsPaid(ctx context.Context, subscriptionID string) (result.Result[*Subscription], error) {
	sub, err := s.findByID(ctx, subscriptionID)
	if err != nil {
		return result.Result[*Subscription]{}, err
	}
	if sub == nil {
		return result.Fail[*Subscription](msgNotFound), nil
	}

	res := sub.MarkAsPaid(s.validators())
	if res.Success() {
		if err := s.store.Save(ctx, sub); err != nil {
			return result.Result[*Subscription]{}, fmt.Errorf("failed to save subscription %s: %w", subscriptionID, err)
		}
		s.publisher.Publish(ctx, events.NewPaymentSucceeded(sub.ID, sub.CustomerID))
	}

	return res, nil
}

// CancelSubscription loads the subscription and applies the cancel
// transition, symmetric to MarkSubscriptionAsPaid, publishing a
// SubscriptionCanceled event on success.
func (s *Service) CancelSubscription(ctx context.Context, subscriptionID string) (result.Result[*Subscription], error) {
	sub, err := s.findByID(ctx, subscriptionID)
	if err != nil {
		return result.Result[*Subscription]{}, err
	}
	if sub == nil {
		return result.Fail[*Subscription](msgNotFound), nil
	}

	res := sub.Cancel(s.validators())
	if res.Success() {
		if err := s.store.Save(ctx, sub); err != nil {
			return result.Result[*Subscription]{}, fmt.Errorf("failed to save subscription %s: %w", subscriptionID, err)
		}
		s.publisher.Publish(ctx, events.NewSubscriptionCanceled(sub.ID, sub.CustomerID, string(sub.Status)))
	}

	return res, nil
}

// findByID translates the store's not-found sentinel into a nil entity so
// callers can produce the business-level failure message.
func (s *Service) findByID(ctx context.Context, id string) (*Subscription, error) {
	sub, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load subscription %s: %w", id, err)
	}
	return sub, nil
}
