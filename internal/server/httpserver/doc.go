// Package httpserver provides the HTTP/HTTPS server for TaskHub.
//
// This package implements the external API using stdlib net/http:
//
//   - Auth endpoints: /auth/register, /auth/login
//   - Task endpoints: /tasks/, /tasks/{id}
//   - Health endpoints: /health, /ready, /metrics
//
// Features:
//
//   - TLS support
//   - Middleware chain: Auth, RateLimit, Audit, RequestID, CORS
//   - Graceful shutdown with configurable timeout
//   - Prometheus metrics integration
package httpserver
