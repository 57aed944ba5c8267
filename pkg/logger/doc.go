// Package logger builds configured slog.Logger instances with sensible
// defaults for development and production environments.
//
// Defaults are production-safe: JSON output at info level. Development mode
// switches to human-readable text at debug level.
package logger
