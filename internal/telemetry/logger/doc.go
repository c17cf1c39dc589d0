// Package logger provides structured logging over log/slog.
//
//   - logger.go: Logger interface, JSON/text handlers, runtime level
//   - context.go: logger, request ID and connection ID in context
//   - truncate.go: payload attributes cut to a short preview
//
// Client data can be arbitrarily large, so attributes named payload,
// value, frame or args are truncated before they reach the handler.
package logger
