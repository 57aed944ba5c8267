// Package events provides the billing domain events and an in-process
// publisher that fans them out to registered subscribers.
//
// The publisher is an explicitly constructed dependency: the composition
// root builds one, registers subscribers, and hands it to whatever services
// need to announce state changes. There is no package-level singleton.
//
// Delivery is synchronous and in registration order. A subscriber failure
// (returned error or panic) is logged and never prevents delivery to the
// remaining subscribers, and never propagates to the publishing caller.
//
// # Usage
//
//	pub := events.NewPublisher(logger)
//	pub.Subscribe(events.TypePaymentSucceeded, events.SubscriberFunc(
//	    func(ctx context.Context, e events.Event) error {
//	        // react to the payment
//	        return nil
//	    },
//	))
//
//	pub.Publish(ctx, events.NewPaymentSucceeded("sub_123", "cus_123"))
package events
