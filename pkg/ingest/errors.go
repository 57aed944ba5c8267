package ingest

import "errors"

var (
	// ErrNotFound is returned by Store.FindByID when no inbound event
	// exists for the given id.
	ErrNotFound = errors.New("inbound event not found")

	// ErrStoreNil is returned when a nil store is provided.
	ErrStoreNil = errors.New("store cannot be nil")

	// ErrEnqueuerNil is returned when a nil enqueuer is provided.
	ErrEnqueuerNil = errors.New("enqueuer cannot be nil")
)
