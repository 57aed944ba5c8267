// Package verifier authenticates inbound billing-provider webhook requests
// and decodes them into typed events before any core logic runs.
//
// The signature scheme follows the provider's wire format: a signature
// header of the form "t=<unix>,v1=<hex hmac>" where the HMAC-SHA256 is
// computed over "<unix>.<raw payload>" with the endpoint secret. Timestamp
// binding bounds the replay window; comparison is constant time.
//
// Verification failures are terminal: a request that fails here is rejected
// at the transport boundary and is never stored or retried.
package verifier
