package verifier

import "errors"

var (
	// ErrInvalidPayload is returned when the request body cannot be parsed
	// as a provider event.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidSignature is returned when signature verification fails,
	// indicating the request may not have come from the provider or has
	// been tampered with.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMissingSecret is returned when no endpoint secret is configured.
	ErrMissingSecret = errors.New("webhook endpoint secret is required")
)
