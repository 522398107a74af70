// Package logger provides structured logging for TaskHub.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: Handler configuration and level management
//   - context.go: Context-aware logging with request IDs
//   - redact.go: Sensitive data redaction
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering with runtime adjustment
//   - Automatic masking of passwords and bearer tokens
//   - Context propagation for request tracing
package logger
