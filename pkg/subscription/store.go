package subscription

import "context"

// Store persists subscriptions. The service depends only on this interface,
// never on a concrete storage technology.
type Store interface {
	// FindByID returns the subscription with the given provider-assigned id,
	// or ErrNotFound if no such subscription exists.
	FindByID(ctx context.Context, id string) (*Subscription, error)

	// Save upserts the subscription: it creates the row if absent and
	// overwrites customer id and status if present. The id is caller
	// assigned, never generated by the store.
	Save(ctx context.Context, sub *Subscription) error
}
