// Package main provides the entry point for taskhub-server.
//
// The server is the TaskHub API service that provides:
//
//   - Account registration and login with salted password hashing
//   - Stateless bearer token authentication
//   - Per-user task management over HTTP
//   - Prometheus metrics exposition
//
// Usage:
//
//	taskhub-server [flags]
//	taskhub-server --config /path/to/config.yaml
//
// The server loads configuration, initializes infrastructure components,
// and starts the HTTP listener.
package main
