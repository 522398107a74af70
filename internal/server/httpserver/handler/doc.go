// Package handler provides HTTP request handlers for TaskHub.
//
// This package contains handlers for all HTTP endpoints:
//
//   - auth.go: Registration and login
//   - task.go: Owner-scoped task CRUD
//   - health.go: Health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Parse and validate request
//   - Call domain service
//   - Format and return response
//   - Handle errors with appropriate HTTP status codes
//
// Response bodies are fixed shapes without an envelope; errors are
// {code, message} objects.
package handler
