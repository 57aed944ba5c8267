package subscription_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/events"
	"github.com/dmitrymomot/billingkit/pkg/subscription"
)

type mockStore struct {
	findByIDFunc func(ctx context.Context, id string) (*subscription.Subscription, error)
	saveFunc     func(ctx context.Context, sub *subscription.Subscription) error
}

func (m *mockStore) FindByID(ctx context.Context, id string) (*subscription.Subscription, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockStore) Save(ctx context.Context, sub *subscription.Subscription) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sub)
	}
	return nil
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) {
	p.published = append(p.published, event)
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("panics without store", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			subscription.NewService(nil, &capturingPublisher{})
		})
	})

	t.Run("panics without publisher", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			subscription.NewService(subscription.NewMemoryStore(), nil)
		})
	})
}

func TestCreateSubscription(t *testing.T) {
	t.Parallel()

	t.Run("persists unpaid and publishes created event", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		pub := &capturingPublisher{}
		svc := subscription.NewService(store, pub)

		res, err := svc.CreateSubscription(context.Background(), "sub_1", "cus_1")

		require.NoError(t, err)
		require.True(t, res.Success())
		assert.Equal(t, subscription.StatusUnpaid, res.Value().Status)

		saved, err := store.FindByID(context.Background(), "sub_1")
		require.NoError(t, err)
		assert.Equal(t, "cus_1", saved.CustomerID)

		require.Len(t, pub.published, 1)
		assert.Equal(t, events.TypeSubscriptionCreated, pub.published[0].EventType())
	})

	t.Run("second create for the same id is an upsert", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		svc := subscription.NewService(store, &capturingPublisher{})

		_, err := svc.CreateSubscription(context.Background(), "sub_1", "cus_1")
		require.NoError(t, err)
		res, err := svc.CreateSubscription(context.Background(), "sub_1", "cus_1")
		require.NoError(t, err)

		require.True(t, res.Success())
		assert.Equal(t, 1, store.Len())
	})

	t.Run("save failure returns error without publishing", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection lost")
		store := &mockStore{
			findByIDFunc: func(ctx context.Context, id string) (*subscription.Subscription, error) {
				return nil, subscription.ErrNotFound
			},
			saveFunc: func(ctx context.Context, sub *subscription.Subscription) error {
				return storeErr
			},
		}
		pub := &capturingPublisher{}
		svc := subscription.NewService(store, pub)

		_, err := svc.CreateSubscription(context.Background(), "sub_1", "cus_1")

		require.ErrorIs(t, err, storeErr)
		assert.Empty(t, pub.published)
	})
}

func TestMarkSubscriptionAsPaid(t *testing.T) {
	t.Parallel()

	t.Run("pays an unpaid subscription and publishes", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		pub := &capturingPublisher{}
		svc := subscription.NewService(store, pub)

		_, err := svc.CreateSubscription(context.Background(), "sub_1", "cus_1")
		require.NoError(t, err)
		pub.published = nil

		res, err := svc.MarkSubscriptionAsPaid(context.Background(), "sub_1")

		require.NoError(t, err)
		require.True(t, res.Success())
		assert.Equal(t, subscription.StatusPaid, res.Value().Status)

		saved, err := store.FindByID(context.Background(), "sub_1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusPaid, saved.Status)

		require.Len(t, pub.published, 1)
		assert.Equal(t, events.TypePaymentSucceeded, pub.published[0].EventType())
	})

	t.Run("missing subscription short-circuits", func(t *testing.T) {
		t.Parallel()

		pub := &capturingPublisher{}
		svc := subscription.NewService(subscription.NewMemoryStore(), pub)

		res, err := svc.MarkSubscriptionAsPaid(context.Background(), "sub_missing")

		require.NoError(t, err)
		require.True(t, res.Failure())
		assert.Equal(t, "Subscription not found", res.Err())
		assert.Empty(t, pub.published)
	})

	t.Run("already paid fails without persisting or publishing", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		require.NoError(t, store.Save(context.Background(),
			&subscription.Subscription{ID: "sub_1", CustomerID: "cus_1", Status: subscription.StatusPaid}))
		pub := &capturingPublisher{}
		svc := subscription.NewService(store, pub)

		res, err := svc.MarkSubscriptionAsPaid(context.Background(), "sub_1")

		require.NoError(t, err)
		require.True(t, res.Failure())
		assert.Equal(t, "Subscription is already paid", res.Err())
		assert.Empty(t, pub.published)
	})

	t.Run("canceled subscription cannot be paid", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		require.NoError(t, store.Save(context.Background(),
			&subscription.Subscription{ID: "sub_1", CustomerID: "cus_1", Status: subscription.StatusCanceled}))
		svc := subscription.NewService(store, &capturingPublisher{})

		res, err := svc.MarkSubscriptionAsPaid(context.Background(), "sub_1")

		require.NoError(t, err)
		require.True(t, res.Failure())
		assert.Equal(t, "Cannot pay for a canceled subscription", res.Err())
	})

	t.Run("store fault surfaces as error", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection lost")
		store := &mockStore{
			findByIDFunc: func(ctx context.Context, id string) (*subscription.Subscription, error) {
				return nil, storeErr
			},
		}
		svc := subscription.NewService(store, &capturingPublisher{})

		_, err := svc.MarkSubscriptionAsPaid(context.Background(), "sub_1")

		require.ErrorIs(t, err, storeErr)
	})
}

func TestCancelSubscription(t *testing.T) {
	t.Parallel()

	t.Run("cancels a paid subscription and publishes", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		require.NoError(t, store.Save(context.Background(),
			&subscription.Subscription{ID: "sub_1", CustomerID: "cus_1", Status: subscription.StatusPaid}))
		pub := &capturingPublisher{}
		svc := subscription.NewService(store, pub)

		res, err := svc.CancelSubscription(context.Background(), "sub_1")

		require.NoError(t, err)
		require.True(t, res.Success())
		assert.Equal(t, subscription.StatusCanceled, res.Value().Status)

		saved, err := store.FindByID(context.Background(), "sub_1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusCanceled, saved.Status)

		require.Len(t, pub.published, 1)
		assert.Equal(t, events.TypeSubscriptionCanceled, pub.published[0].EventType())
	})

	t.Run("missing subscription short-circuits", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(subscription.NewMemoryStore(), &capturingPublisher{})

		res, err := svc.CancelSubscription(context.Background(), "sub_missing")

		require.NoError(t, err)
		require.True(t, res.Failure())
		assert.Equal(t, "Subscription not found", res.Err())
	})

	t.Run("unpaid subscription fails without persisting", func(t *testing.T) {
		t.Parallel()

		store := subscription.NewMemoryStore()
		pub := &capturingPublisher{}
		svc := subscription.NewService(store, pub)

		_, err := svc.CreateSubscription(context.Background(), "sub_1", "cus_1")
		require.NoError(t, err)
		pub.published = nil

		res, err := svc.CancelSubscription(context.Background(), "sub_1")

		require.NoError(t, err)
		require.True(t, res.Failure())
		assert.Equal(t, "Only paid subscriptions can be canceled", res.Err())

		saved, err := store.FindByID(context.Background(), "sub_1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusUnpaid, saved.Status)
		assert.Empty(t, pub.published)
	})
}

func TestWithValidatorFactory(t *testing.T) {
	t.Parallel()

	store := subscription.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(),
		&subscription.Subscription{ID: "sub_1", CustomerID: "cus_1", Status: subscription.StatusPaid}))

	svc := subscription.NewService(store, &capturingPublisher{},
		subscription.WithValidatorFactory(func() subscription.Validator {
			return &permissiveValidator{}
		}))

	// The permissive rules allow paying an already paid subscription.
	res, err := svc.MarkSubscriptionAsPaid(context.Background(), "sub_1")

	require.NoError(t, err)
	assert.True(t, res.Success())
}

type permissiveValidator struct{}

func (permissiveValidator) ValidForPayment(*subscription.Subscription) bool      { return true }
func (permissiveValidator) ValidForCancellation(*subscription.Subscription) bool { return true }
func (permissiveValidator) Errors() []string                                     { return nil }
