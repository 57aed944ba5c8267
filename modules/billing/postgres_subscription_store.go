package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/subscription"
)

// PostgresSubscriptionStore implements subscription.Store on the
// subscriptions table. Save is an upsert keyed by the provider-assigned
// subscription id.
type PostgresSubscriptionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionStore creates a store backed by the given pool.
func NewPostgresSubscriptionStore(pool *pgxpool.Pool) (*PostgresSubscriptionStore, error) {
	if pool == nil {
		return nil, ErrPoolNil
	}
	return &PostgresSubscriptionStore{pool: pool}, nil
}

func (s *PostgresSubscriptionStore) FindByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	err := s.pool.QueryRow(ctx, `
		SELECT id, customer_id, status
		FROM subscriptions
		WHERE id = $1`,
		id).Scan(&sub.ID, &sub.CustomerID, &sub.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, subscription.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query subscription %s: %w", id, err)
	}

	return &sub, nil
}

func (s *PostgresSubscriptionStore) Save(ctx context.Context, sub *subscription.Subscription) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, customer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id, status = EXCLUDED.status, updated_at = now()`,
		sub.ID, sub.CustomerID, sub.Status)
	if err != nil {
		return fmt.Errorf("failed to save subscription %s: %w", sub.ID, err)
	}

	return nil
}
