package subscription

import "errors"

var (
	// ErrNotFound is returned by Store.FindByID when no subscription exists
	// for the given id.
	ErrNotFound = errors.New("subscription not found")
)
