package billing

import "errors"

var (
	ErrPoolNil   = errors.New("billing: connection pool is required")
	ErrLoggerNil = errors.New("billing: logger is required")
)
