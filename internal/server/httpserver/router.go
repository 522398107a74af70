// Package httpserver provides the HTTP/HTTPS server for TaskHub.
package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/arvel/taskhub-go/internal/core/service"
	"github.com/arvel/taskhub-go/internal/server/httpserver/handler"
	"github.com/arvel/taskhub-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Accounts handles registration and credential verification.
	Accounts *service.AccountService

	// Tokens issues and verifies bearer tokens.
	Tokens *service.TokenService

	// Tasks handles owner-scoped task operations.
	Tasks *service.TaskService

	// Metrics collects request and domain metrics. Optional.
	Metrics *metric.Metrics

	// Logger for request logging.
	Logger *slog.Logger

	// CORSAllowedOrigins is the list of allowed CORS origins (empty = CORS off).
	CORSAllowedOrigins []string

	// RateLimit is the per-IP request rate (requests/second). Zero disables.
	RateLimit float64

	// RateBurst is the per-IP burst allowance.
	RateBurst int

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.Accounts, cfg.Tokens, cfg.Tasks, cfg.Metrics, cfg.Logger)

	middlewareCfg := &MiddlewareConfig{
		Accounts: cfg.Accounts,
		Tokens:   cfg.Tokens,
		Logger:   cfg.Logger,
	}

	// Middlewares shared by every route group. RequestID runs outermost so
	// the request ID and start time are in the context before Audit and
	// Observe read them.
	// Order: RequestID -> RateLimit -> Audit -> Observe -> CORS -> Recover -> handler
	common := func(extra ...Middleware) http.Handler {
		middlewares := make([]Middleware, 0, 8)
		middlewares = append(middlewares, RequestID())
		if cfg.RateLimit > 0 {
			middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateBurst))
		}
		if cfg.EnableAudit {
			middlewares = append(middlewares, Audit(cfg.Logger))
		}
		if cfg.Metrics != nil {
			middlewares = append(middlewares, Observe(cfg.Metrics))
		}
		if len(cfg.CORSAllowedOrigins) > 0 {
			middlewares = append(middlewares, CORS(cfg.CORSAllowedOrigins))
		}
		middlewares = append(middlewares, Recover(cfg.Logger))
		middlewares = append(middlewares, extra...)
		return Chain(h, middlewares...)
	}

	publicHandler := common()
	protectedHandler := common(Auth(middlewareCfg))

	mux := http.NewServeMux()

	// Health endpoints - no authentication required
	mux.Handle("GET /health", publicHandler)
	mux.Handle("GET /ready", publicHandler)

	// Metrics endpoint - Prometheus exposition format
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Auth endpoints - no authentication required
	mux.Handle("POST /auth/register", publicHandler)
	mux.Handle("POST /auth/login", publicHandler)

	// Task endpoints - require a valid bearer token
	mux.Handle("POST /tasks/{$}", protectedHandler)
	mux.Handle("GET /tasks/{$}", protectedHandler)
	mux.Handle("GET /tasks/{id}", protectedHandler)
	mux.Handle("PUT /tasks/{id}", protectedHandler)
	mux.Handle("DELETE /tasks/{id}", protectedHandler)

	return mux
}
