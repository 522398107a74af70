// Package metric provides Prometheus metrics for TaskHub.
//
// This package implements metrics collection and exposition:
//
//   - metric.go: Prometheus registry, collectors, and HTTP handler
//
// Metrics include:
//
//   - Request counters and latency histograms per method/route
//   - Registration and login counters (logins labeled by outcome)
//   - Task creation and deletion counters
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
