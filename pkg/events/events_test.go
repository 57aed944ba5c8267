package events_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/billingkit/pkg/events"
)

func TestNewSubscriptionCreated(t *testing.T) {
	t.Parallel()

	ev := events.NewSubscriptionCreated("sub_123", "cus_456", "unpaid")

	assert.NotEqual(t, uuid.Nil, ev.EventID())
	assert.Equal(t, events.TypeSubscriptionCreated, ev.EventType())
	assert.False(t, ev.OccurredAt().IsZero())
	assert.Equal(t, "sub_123", ev.SubscriptionID)
	assert.Equal(t, "cus_456", ev.CustomerID)
	assert.Equal(t, "unpaid", ev.Status)
	assert.Equal(t, events.Version, ev.Version)
}

func TestNewPaymentSucceeded(t *testing.T) {
	t.Parallel()

	ev := events.NewPaymentSucceeded("sub_123", "cus_456")

	assert.Equal(t, events.TypePaymentSucceeded, ev.EventType())
	assert.Equal(t, "sub_123", ev.SubscriptionID)
	assert.Equal(t, "cus_456", ev.CustomerID)
}

func TestNewSubscriptionCanceled(t *testing.T) {
	t.Parallel()

	ev := events.NewSubscriptionCanceled("sub_123", "cus_456", "canceled")

	assert.Equal(t, events.TypeSubscriptionCanceled, ev.EventType())
	assert.Equal(t, "canceled", ev.Status)
}

func TestEventIDsAreUnique(t *testing.T) {
	t.Parallel()

	a := events.NewPaymentSucceeded("sub_1", "cus_1")
	b := events.NewPaymentSucceeded("sub_1", "cus_1")

	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestString(t *testing.T) {
	t.Parallel()

	ev := events.NewSubscriptionCreated("sub_123", "cus_456", "unpaid")
	s := ev.String()

	require.NotEmpty(t, s)
	assert.Contains(t, s, "SubscriptionCreated")
	assert.Contains(t, s, "sub_123")
	assert.Contains(t, s, "cus_456")
	assert.Contains(t, s, ev.EventID().String())
}
