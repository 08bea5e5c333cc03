// Package logger configures structured JSON logging on log/slog and
// carries request-scoped loggers through context so handlers and services
// log with the request's trace ID attached.
package logger
