package ingest

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status represents the processing state of a stored inbound event.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusUnhandled Status = "unhandled"
	StatusFailed    Status = "failed"
)

// Valid checks if the status is one of the persisted vocabulary values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessed, StatusUnhandled, StatusFailed:
		return true
	}
	return false
}

// Provider event type strings recognized by the dispatcher. Matching is
// exact and case-sensitive; everything else is unhandled.
const (
	TypeSubscriptionCreated = "customer.subscription.created"
	TypePaymentSucceeded    = "invoice.payment_succeeded"
	TypeSubscriptionDeleted = "customer.subscription.deleted"
)

// Kind is the closed set of inbound event kinds the dispatcher routes on,
// decoded once from the provider's type string.
type Kind int

const (
	KindUnknown Kind = iota
	KindSubscriptionCreated
	KindPaymentSucceeded
	KindSubscriptionDeleted
)

// KindOf maps a provider event type string to its Kind.
func KindOf(eventType string) Kind {
	switch eventType {
	case TypeSubscriptionCreated:
		return KindSubscriptionCreated
	case TypePaymentSucceeded:
		return KindPaymentSucceeded
	case TypeSubscriptionDeleted:
		return KindSubscriptionDeleted
	}
	return KindUnknown
}

// Event is a stored inbound webhook event. The provider-assigned EventID is
// the deduplication key; the row is created on first receipt and mutated
// only by the dispatch pipeline.
type Event struct {
	ID          uuid.UUID       `json:"id"`
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	Status      Status          `json:"status"`
	Attempts    int             `json:"attempts"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Kind returns the routing kind decoded from the stored event type.
func (e *Event) Kind() Kind {
	return KindOf(e.EventType)
}
