package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Version is the event format version carried by every domain event.
const Version = "1.0"

// Type identifies a domain event kind for subscription routing.
type Type string

const (
	TypeSubscriptionCreated  Type = "subscription.created"
	TypePaymentSucceeded     Type = "payment.succeeded"
	TypeSubscriptionCanceled Type = "subscription.canceled"
)

// Event is a domain event: an immutable record of a completed state change,
// published to in-process subscribers. Events are transient and are not
// persisted by this module.
type Event interface {
	// EventID returns the generated unique identifier of this event,
	// independent of any provider-assigned inbound event id.
	EventID() uuid.UUID

	// EventType returns the kind used for subscriber routing.
	EventType() Type

	// OccurredAt returns the UTC time the event was constructed.
	OccurredAt() time.Time
}

// meta carries the fields shared by all domain events.
type meta struct {
	ID        uuid.UUID
	Version   string
	Timestamp time.Time
}

func newMeta() meta {
	return meta{
		ID:        uuid.New(),
		Version:   Version,
		Timestamp: time.Now().UTC(),
	}
}

func (m meta) EventID() uuid.UUID    { return m.ID }
func (m meta) OccurredAt() time.Time { return m.Timestamp }

// SubscriptionCreated announces that a new subscription was created.
type SubscriptionCreated struct {
	meta
	SubscriptionID string
	CustomerID     string
	Status         string
}

// NewSubscriptionCreated constructs a SubscriptionCreated event.
func NewSubscriptionCreated(subscriptionID, customerID, status string) SubscriptionCreated {
	return SubscriptionCreated{
		meta:           newMeta(),
		SubscriptionID: subscriptionID,
		CustomerID:     customerID,
		Status:         status,
	}
}

func (e SubscriptionCreated) EventType() Type { return TypeSubscriptionCreated }

func (e SubscriptionCreated) String() string {
	return fmt.Sprintf("SubscriptionCreated: subscription_id=%s customer_id=%s status=%s, version: %s, timestamp: %s, id: %s",
		e.SubscriptionID, e.CustomerID, e.Status, e.Version, e.Timestamp.Format(time.RFC3339), e.ID)
}

// PaymentSucceeded announces that a subscription payment went through.
type PaymentSucceeded struct {
	meta
	SubscriptionID string
	CustomerID     string
}

// NewPaymentSucceeded constructs a PaymentSucceeded event.
func NewPaymentSucceeded(subscriptionID, customerID string) PaymentSucceeded {
	return PaymentSucceeded{
		meta:           newMeta(),
		SubscriptionID: subscriptionID,
		CustomerID:     customerID,
	}
}

func (e PaymentSucceeded) EventType() Type { return TypePaymentSucceeded }

func (e PaymentSucceeded) String() string {
	return fmt.Sprintf("PaymentSucceeded: subscription_id=%s customer_id=%s, version: %s, timestamp: %s, id: %s",
		e.SubscriptionID, e.CustomerID, e.Version, e.Timestamp.Format(time.RFC3339), e.ID)
}

// SubscriptionCanceled announces that a subscription was canceled.
type SubscriptionCanceled struct {
	meta
	SubscriptionID string
	CustomerID     string
	Status         string
}

// NewSubscriptionCanceled constructs a SubscriptionCanceled event.
func NewSubscriptionCanceled(subscriptionID, customerID, status string) SubscriptionCanceled {
	return SubscriptionCanceled{
		meta:           newMeta(),
		SubscriptionID: subscriptionID,
		CustomerID:     customerID,
		Status:         status,
	}
}

func (e SubscriptionCanceled) EventType() Type { return TypeSubscriptionCanceled }

func (e SubscriptionCanceled) String() string {
	return fmt.Sprintf("SubscriptionCanceled: subscription_id=%s customer_id=%s status=%s, version: %s, timestamp: %s, id: %s",
		e.SubscriptionID, e.CustomerID, e.Status, e.Version, e.Timestamp.Format(time.RFC3339), e.ID)
}
