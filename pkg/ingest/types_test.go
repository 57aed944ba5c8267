package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/billingkit/pkg/ingest"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ingest.KindSubscriptionCreated, ingest.KindOf("customer.subscription.created"))
	assert.Equal(t, ingest.KindPaymentSucceeded, ingest.KindOf("invoice.payment_succeeded"))
	assert.Equal(t, ingest.KindSubscriptionDeleted, ingest.KindOf("customer.subscription.deleted"))

	// Matching is exact and case-sensitive.
	assert.Equal(t, ingest.KindUnknown, ingest.KindOf("Customer.Subscription.Created"))
	assert.Equal(t, ingest.KindUnknown, ingest.KindOf("invoice.payment_failed"))
	assert.Equal(t, ingest.KindUnknown, ingest.KindOf(""))
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, ingest.StatusPending.Valid())
	assert.True(t, ingest.StatusProcessed.Valid())
	assert.True(t, ingest.StatusUnhandled.Valid())
	assert.True(t, ingest.StatusFailed.Valid())
	assert.False(t, ingest.Status("rescheduled").Valid())
}
