// Package subscription implements the billing subscription lifecycle: the
// entity with its guarded status transitions, the pluggable transition
// validator, the persistence store contract, and the service that ties
// mutation, persistence, and event publication together per use case.
//
// The status state machine has three states: unpaid (initial), paid, and
// canceled (terminal). Transitions are validated by a Validator strategy so
// alternate rule sets can be substituted without touching the entity.
//
// Expected rule violations are returned as result.Result failures carrying
// the validator's messages; error returns are reserved for storage faults.
package subscription
