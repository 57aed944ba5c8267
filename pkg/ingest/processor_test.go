package ingest_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/ingest"
	"github.com/dmitrymomot/billingkit/pkg/result"
	"github.com/dmitrymomot/billingkit/pkg/subscription"
)

func TestProcessorHandle(t *testing.T) {
	t.Parallel()

	t.Run("processed outcome persists status and timestamp", func(t *testing.T) {
		t.Parallel()

		store := ingest.NewMemoryStore()
		svc := &mockService{
			payFunc: func(ctx context.Context, subscriptionID string) (result.Result[*subscription.Subscription], error) {
				return okResult()
			},
		}
		d := ingest.NewDispatcher(svc, store, &capturingEnqueuer{}, discardLogger())
		p := ingest.NewProcessor(store, d, discardLogger())
		ev := storedEvent(t, store, "invoice.payment_succeeded", `{"subscription":"sub_1"}`)

		require.NoError(t, p.Handle(context.Background(), ev.ID))

		stored, err := store.FindByID(context.Background(), ev.ID)
		require.NoError(t, err)
		assert.Equal(t, ingest.StatusProcessed, stored.Status)
		require.NotNil(t, stored.ProcessedAt)
	})

	t.Run("unhandled outcome persists unhandled status", func(t *testing.T) {
		t.Parallel()

		store := ingest.NewMemoryStore()
		d := ingest.NewDispatcher(&mockService{}, store, &capturingEnqueuer{}, discardLogger())
		p := ingest.NewProcessor(store, d, discardLogger())
		ev := storedEvent(t, store, "charge.refunded", `{"id":"ch_1"}`)

		require.NoError(t, p.Handle(context.Background(), ev.ID))

		stored, err := store.FindByID(context.Background(), ev.ID)
		require.NoError(t, err)
		assert.Equal(t, ingest.StatusUnhandled, stored.Status)
		assert.Nil(t, stored.ProcessedAt)
	})

	t.Run("error outcome persists failed status", func(t *testing.T) {
		t.Parallel()

		store := ingest.NewMemoryStore()
		svc := &mockService{
			payFunc: func(ctx context.Context, subscriptionID string) (result.Result[*subscription.Subscription], error) {
				panic("boom")
			},
		}
		d := ingest.NewDispatcher(svc, store, &capturingEnqueuer{}, discardLogger())
		p := ingest.NewProcessor(store, d, discardLogger())
		ev := storedEvent(t, store, "invoice.payment_succeeded", `{"subscription":"sub_1"}`)

		require.NoError(t, p.Handle(context.Background(), ev.ID))

		stored, err := store.FindByID(context.Background(), ev.ID)
		require.NoError(t, err)
		assert.Equal(t, ingest.StatusFailed, stored.Status)
	})

	t.Run("rescheduled outcome leaves status pending", func(t *testing.T) {
		t.Parallel()

		store := ingest.NewMemoryStore()
		svc := &mockService{
			payFunc: func(ctx context.Context, subscriptionID string) (result.Result[*subscription.Subscription], error) {
				return result.Fail[*subscription.Subscription]("Subscription not found"), nil
			},
		}
		d := ingest.NewDispatcher(svc, store, &capturingEnqueuer{}, discardLogger())
		p := ingest.NewProcessor(store, d, discardLogger())
		ev := storedEvent(t, store, "invoice.payment_succeeded", `{"subscription":"sub_1"}`)

		require.NoError(t, p.Handle(context.Background(), ev.ID))

		stored, err := store.FindByID(context.Background(), ev.ID)
		require.NoError(t, err)
		assert.Equal(t, ingest.StatusPending, stored.Status)
		assert.Equal(t, 1, stored.Attempts)
	})

	t.Run("exhausted attempts persist failed status", func(t *testing.T) {
		t.Parallel()

		store := ingest.NewMemoryStore()
		svc := &mockService{
			payFunc: func(ctx context.Context, subscriptionID string) (result.Result[*subscription.Subscription], error) {
				return result.Fail[*subscription.Subscription]("Subscription not found"), nil
			},
		}
		d := ingest.NewDispatcher(svc, store, &capturingEnqueuer{}, discardLogger())
		p := ingest.NewProcessor(store, d, discardLogger())
		ev := storedEvent(t, store, "invoice.payment_succeeded", `{"subscription":"sub_1"}`)

		// One handle per scheduled attempt, as the queue would deliver them.
		for range ingest.MaxAttempts {
			require.NoError(t, p.Handle(context.Background(), ev.ID))
		}

		stored, err := store.FindByID(context.Background(), ev.ID)
		require.NoError(t, err)
		assert.Equal(t, ingest.StatusFailed, stored.Status)
		assert.Equal(t, ingest.MaxAttempts-1, stored.Attempts)
	})

	t.Run("unknown event id surfaces storage fault", func(t *testing.T) {
		t.Parallel()

		store := ingest.NewMemoryStore()
		d := ingest.NewDispatcher(&mockService{}, store, &capturingEnqueuer{}, discardLogger())
		p := ingest.NewProcessor(store, d, discardLogger())

		err := p.Handle(context.Background(), uuid.New())

		assert.ErrorIs(t, err, ingest.ErrNotFound)
	})
}

func TestNewProcessorValidation(t *testing.T) {
	t.Parallel()

	store := ingest.NewMemoryStore()
	d := ingest.NewDispatcher(&mockService{}, store, &capturingEnqueuer{}, discardLogger())

	assert.Panics(t, func() { ingest.NewProcessor(nil, d, discardLogger()) })
	assert.Panics(t, func() { ingest.NewProcessor(store, nil, discardLogger()) })
}
