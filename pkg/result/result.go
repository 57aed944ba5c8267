package result

// Result represents the outcome of a domain operation: either a success
// carrying a value, or a failure carrying an error message. Expected
// business-rule violations travel as failures instead of Go errors, which
// keeps them out of the error-handling path reserved for truly unexpected
// conditions.
type Result[T any] struct {
	value   T
	err     string
	success bool
}

// OK creates a successful Result wrapping the given value.
func OK[T any](value T) Result[T] {
	return Result[T]{value: value, success: true}
}

// Fail creates a failed Result carrying an error message.
func Fail[T any](msg string) Result[T] {
	return Result[T]{err: msg}
}

// Success reports whether the operation succeeded.
func (r Result[T]) Success() bool {
	return r.success
}

// Failure reports whether the operation failed.
func (r Result[T]) Failure() bool {
	return !r.success
}

// Value returns the value carried by a successful Result.
// For a failed Result it returns the zero value of T.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the error message carried by a failed Result.
// For a successful Result it returns the empty string.
func (r Result[T]) Err() string {
	return r.err
}
