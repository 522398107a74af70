// Package httpserver provides the HTTP/HTTPS server for TaskHub.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/arvel/taskhub-go/internal/core/domain"
	"github.com/arvel/taskhub-go/internal/core/service"
	"github.com/arvel/taskhub-go/internal/server/httpserver/handler"
	"github.com/arvel/taskhub-go/internal/telemetry/metric"
)

// Context keys for request-scoped values.
type contextKey string

const (
	// ContextKeyRequestID is the context key for request ID.
	ContextKeyRequestID contextKey = "request_id"

	// ContextKeyStartTime is the context key for request start time.
	ContextKeyStartTime contextKey = "start_time"
)

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// MiddlewareConfig holds configuration for middlewares.
type MiddlewareConfig struct {
	Accounts *service.AccountService
	Tokens   *service.TokenService
	Logger   *slog.Logger
}

// RequestID adds a unique request ID to each request.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Honor an existing request ID from a trusted proxy
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = "req-" + ulid.Make().String()
			}

			w.Header().Set("X-Request-ID", requestID)

			ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)
			ctx = context.WithValue(ctx, ContextKeyStartTime, time.Now())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Auth creates the bearer token authentication middleware.
//
// A missing or unusable Authorization header, and every token verification
// failure (malformed, bad signature, expired), all produce the same 401
// response so a caller cannot tell which check rejected them. A token that
// verifies but whose subject no longer resolves to an account produces 404.
func Auth(cfg *MiddlewareConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, domain.ErrUnauthenticated)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				writeAuthError(w, http.StatusUnauthorized, domain.ErrUnauthenticated)
				return
			}

			username, err := cfg.Tokens.Verify(tokenString)
			if err != nil {
				// Collapse every verification failure to the same 401.
				// The failing check stays in server-side logs only.
				if cfg.Logger != nil {
					cfg.Logger.Debug("token rejected", "error", err)
				}
				writeAuthError(w, http.StatusUnauthorized, domain.ErrUnauthenticated)
				return
			}

			user, err := cfg.Accounts.Lookup(r.Context(), username)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					// Token is valid but the account vanished.
					writeAuthError(w, http.StatusNotFound, domain.ErrUserNotFound)
					return
				}
				if cfg.Logger != nil {
					cfg.Logger.Error("account lookup failed", "error", err)
				}
				writeAuthError(w, http.StatusInternalServerError, domain.ErrInternalServer)
				return
			}

			if state, ok := r.Context().Value(contextKeyAuditState).(*auditState); ok {
				state.username = user.Username
			}

			next.ServeHTTP(w, r.WithContext(handler.WithUser(r.Context(), user)))
		})
	}
}

// Limiter registry bounds. A client idle longer than clientIdleTTL is
// eligible for eviction once the registry is full.
const (
	maxTrackedClients = 8192
	clientIdleTTL     = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters tracks one token bucket per client IP, capped at
// maxTrackedClients entries.
type clientLimiters struct {
	mu      sync.Mutex
	rps     float64
	burst   int
	clients map[string]*clientLimiter
}

func newClientLimiters(requestsPerSecond float64, burst int) *clientLimiters {
	return &clientLimiters{
		rps:     requestsPerSecond,
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

func (c *clientLimiters) get(ip string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.clients[ip]; ok {
		cl.lastSeen = now
		return cl.limiter
	}

	if len(c.clients) >= maxTrackedClients {
		c.evict(now)
	}

	cl := &clientLimiter{
		limiter:  rate.NewLimiter(rate.Limit(c.rps), c.burst),
		lastSeen: now,
	}
	c.clients[ip] = cl
	return cl.limiter
}

// evict drops idle clients, then arbitrary ones if the registry is still
// full. Caller holds the mutex.
func (c *clientLimiters) evict(now time.Time) {
	for ip, cl := range c.clients {
		if now.Sub(cl.lastSeen) > clientIdleTTL {
			delete(c.clients, ip)
		}
	}
	for ip := range c.clients {
		if len(c.clients) < maxTrackedClients {
			break
		}
		delete(c.clients, ip)
	}
}

// RateLimit applies per-IP rate limiting using a token bucket per client.
func RateLimit(requestsPerSecond float64, burst int) Middleware {
	limiters := newClientLimiters(requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(getClientIP(r), time.Now()).Allow() {
				w.Header().Set("Retry-After", "1")
				writeAuthError(w, http.StatusTooManyRequests, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// auditState collects attributes set by inner middlewares after the request
// context has already forked. Audit seeds it, Auth fills it.
type auditState struct {
	username string
}

const contextKeyAuditState contextKey = "audit_state"

// Audit logs request/response for audit trail.
//
// Audit must be chained inside RequestID; it reads the request ID and start
// time from the request context.
func Audit(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			state := &auditState{}
			r = r.WithContext(context.WithValue(r.Context(), contextKeyAuditState, state))

			next.ServeHTTP(wrapped, r)

			requestID, _ := r.Context().Value(ContextKeyRequestID).(string)
			startTime, _ := r.Context().Value(ContextKeyStartTime).(time.Time)

			duration := time.Since(startTime)

			attrs := []any{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"client_ip", getClientIP(r),
			}

			if state.username != "" {
				attrs = append(attrs, "username", state.username)
			}

			if wrapped.statusCode >= 500 {
				logger.Error("request completed with error", attrs...)
			} else if wrapped.statusCode >= 400 {
				logger.Warn("request completed with client error", attrs...)
			} else {
				logger.Info("request completed", attrs...)
			}
		})
	}
}

// Observe records request counts and latencies.
func Observe(m *metric.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(wrapped, r)

			route := normalizeRoute(r.URL.Path)
			m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizeRoute collapses paths with IDs into their route pattern to keep
// metric label cardinality bounded.
func normalizeRoute(path string) string {
	if strings.HasPrefix(path, "/tasks/") && path != "/tasks/" {
		return "/tasks/{id}"
	}
	return path
}

// Recover recovers from panics and returns 500 error.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					requestID, _ := r.Context().Value(ContextKeyRequestID).(string)
					logger.Error("panic recovered",
						"request_id", requestID,
						"error", err,
						"path", r.URL.Path,
					)

					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Error-Code", domain.ErrInternalServer.Code)
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"code":    domain.ErrInternalServer.Code,
						"message": domain.ErrInternalServer.Message,
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// CORS adds Cross-Origin Resource Sharing headers.
func CORS(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			// Handle preflight
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// GetRequestIDFromContext retrieves the request ID from context.
func GetRequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// writeAuthError writes an authentication error response.
func writeAuthError(w http.ResponseWriter, status int, err error) {
	code := domain.GetErrorCode(err)
	if code == "" {
		code = domain.ErrUnauthenticated.Code
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": err.Error(),
	})
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// net.SplitHostPort handles IPv6 addresses like [::1]:8080
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
