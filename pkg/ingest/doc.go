// Package ingest implements the inbound webhook event pipeline: durable
// deduplicated intake, dispatch to the subscription use cases, and bounded
// retry of transient business failures.
//
// Every verified provider event is recorded exactly once, keyed by the
// provider-assigned event id; duplicate deliveries are absorbed without a
// second row or a second dispatch. Stored events double as an audit log and
// are never deleted.
//
// The pipeline has three stages:
//
//   - Intake     — dedupe-check-and-insert on the request path, then enqueue
//     an asynchronous dispatch
//   - Dispatcher — routes a stored event to the matching subscription
//     operation and classifies the outcome
//   - Processor  — the queue-facing layer that maps an outcome to the
//     persisted event status
//
// A business-rule failure is retried up to MaxAttempts times with a fixed
// RetryDelay between attempts; unrecognized event types and unexpected
// errors are terminal.
package ingest
