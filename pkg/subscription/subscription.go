package subscription

import (
	"strings"

	"github.com/dmitrymomot/billingkit/pkg/result"
)

// Status represents the lifecycle state of a subscription.
type Status string

const (
	StatusUnpaid   Status = "unpaid"
	StatusPaid     Status = "paid"
	StatusCanceled Status = "canceled"
)

// Valid checks if the status is one of the persisted vocabulary values.
func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusCanceled:
		return true
	}
	return false
}

// Subscription is the billing subscription entity. The in-memory value is a
// transient projection used for one operation: it is loaded, mutated, and
// persisted, then discarded. The ID is externally assigned by the billing
// provider, never generated here.
type Subscription struct {
	ID         string
	CustomerID string
	Status     Status
}

// New creates a subscription in the initial unpaid status.
func New(id, customerID string) *Subscription {
	return &Subscription{
		ID:         id,
		CustomerID: customerID,
		Status:     StatusUnpaid,
	}
}

// IsPaid returns true if the subscription has been paid for.
func (s *Subscription) IsPaid() bool {
	return s.Status == StatusPaid
}

// IsCanceled returns true if the subscription is canceled.
func (s *Subscription) IsCanceled() bool {
	return s.Status == StatusCanceled
}

// MarkAsPaid transitions the subscription to paid if the validator allows it.
// On success the mutated entity is wrapped in the result; on failure the
// entity is untouched and the result carries the joined validator messages.
func (s *Subscription) MarkAsPaid(v Validator) result.Result[*Subscription] {
	if !v.ValidForPayment(s) {
		return result.Fail[*Subscription](strings.Join(v.Errors(), ", "))
	}

	s.Status = StatusPaid
	return result.OK(s)
}

// Cancel transitions the subscription to canceled if the validator allows it.
// On success the mutated entity is wrapped in the result; on failure the
// entity is untouched and the result carries the joined validator messages.
func (s *Subscription) Cancel(v Validator) result.Result[*Subscription] {
	if !v.ValidForCancellation(s) {
		return result.Fail[*Subscription](strings.Join(v.Errors(), ", "))
	}

	s.Status = StatusCanceled
	return result.OK(s)
}
