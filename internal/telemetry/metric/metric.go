// Package metric provides Prometheus metrics for TaskHub.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskhub"

// Metrics holds all application metrics backed by a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Auth metrics
	UsersRegistered prometheus.Counter
	LoginsTotal     *prometheus.CounterVec

	// Task metrics
	TasksCreated prometheus.Counter
	TasksDeleted prometheus.Counter
}

// New creates a metrics registry with all collectors registered,
// including Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		UsersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "users_registered_total",
			Help:      "Total successful user registrations",
		}),

		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome",
		}, []string{"outcome"}),

		TasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "created_total",
			Help:      "Total tasks created",
		}),

		TasksDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "deleted_total",
			Help:      "Total tasks deleted",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.UsersRegistered,
		m.LoginsTotal,
		m.TasksCreated,
		m.TasksDeleted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry for additional collectors
// (e.g., storage engine metrics).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
