package queue

import "errors"

// Common errors
var (
	// ErrStorageNil is returned when a nil storage is provided
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload
	ErrPayloadNil = errors.New("payload cannot be nil")

	// ErrNoTaskToClaim is returned by storage when no pending task is due
	ErrNoTaskToClaim = errors.New("no task available to claim")

	// ErrHandlerNotFound is returned when no handler is registered for a task
	ErrHandlerNotFound = errors.New("no handler registered for task name")

	// ErrNoHandlers is returned when a worker is started without handlers
	ErrNoHandlers = errors.New("no task handlers registered")
)
