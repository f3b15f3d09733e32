// Package logger configures the process-wide JSON slog logger and carries
// request-scoped loggers (for example one tagged with a trace_id) through
// context.Context. test_helpers.go captures log output for assertions.
package logger
