// Package result provides a minimal success/failure sum type used as the
// return contract for domain operations.
//
// Domain code communicates expected business-rule violations (an illegal
// state transition, a missing subscription) through Result values rather
// than Go errors, reserving the error return path for unexpected failures
// such as storage outages.
//
// # Usage
//
//	res := svc.MarkSubscriptionAsPaid(ctx, "sub_123")
//	if res.Failure() {
//	    // res.Err() holds the business-rule message
//	    return
//	}
//	sub := res.Value()
package result
