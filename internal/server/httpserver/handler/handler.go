// Package handler provides HTTP request handlers for TaskHub.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arvel/taskhub-go/internal/core/domain"
	"github.com/arvel/taskhub-go/internal/core/service"
	"github.com/arvel/taskhub-go/internal/telemetry/metric"
)

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	accounts *service.AccountService
	tokens   *service.TokenService
	tasks    *service.TaskService
	metrics  *metric.Metrics
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a new Handler with the given services. metrics may be nil.
func New(accounts *service.AccountService, tokens *service.TokenService, tasks *service.TaskService, metrics *metric.Metrics, logger *slog.Logger) *Handler {
	h := &Handler{
		accounts: accounts,
		tokens:   tokens,
		tasks:    tasks,
		metrics:  metrics,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoints (no auth required)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	// Auth endpoints (no auth required)
	h.mux.HandleFunc("POST /auth/register", h.handleRegister)
	h.mux.HandleFunc("POST /auth/login", h.handleLogin)

	// Task endpoints (identity injected by the auth middleware)
	h.mux.HandleFunc("POST /tasks/{$}", h.withIdentity(h.handleCreateTask))
	h.mux.HandleFunc("GET /tasks/{$}", h.withIdentity(h.handleListTasks))
	h.mux.HandleFunc("GET /tasks/{id}", h.withIdentity(h.handleGetTask))
	h.mux.HandleFunc("PUT /tasks/{id}", h.withIdentity(h.handleUpdateTask))
	h.mux.HandleFunc("DELETE /tasks/{id}", h.withIdentity(h.handleDeleteTask))
}

// writeJSON writes a JSON response body as-is.
//
// Endpoint bodies are fixed shapes (no envelope); callers pass the exact
// response struct.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := errorCodeToHTTPStatus(code)
		h.writeError(w, status, code, err.Error())
		return
	}

	h.logger.Error("internal error", "error", err)
	h.writeError(w, http.StatusInternalServerError,
		domain.ErrInternalServer.Code, domain.ErrInternalServer.Message)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
//
// A duplicate username (-4090) maps to 400, not 409: registration reports
// every failure as a generic bad request.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"), strings.HasSuffix(code, "-4041"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"),
		strings.HasSuffix(code, "-4002"), strings.HasSuffix(code, "-4090"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"),
		strings.HasSuffix(code, "-4012"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "TH-ARG-"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "TH-SYS-5"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
