package ingest

import (
	"context"

	"github.com/google/uuid"
)

// Store persists inbound events. Implementations must enforce a uniqueness
// constraint on the provider event id and surface a concurrent insert of
// the same id as "already exists" rather than a second row: any race
// between two deliveries of one id is resolved by exactly one of them
// observing the record as already present.
type Store interface {
	// FindOrCreate inserts the event if no record exists for its provider
	// event id. When a record already exists, no field is overwritten, the
	// existing record is copied into ev, and created is false.
	FindOrCreate(ctx context.Context, ev *Event) (created bool, err error)

	// FindByID returns the stored event with the given internal id, or
	// ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)

	// Update persists the event's mutable fields (status, attempts,
	// processed-at) and refreshes the updated-at timestamp.
	Update(ctx context.Context, ev *Event) error
}
