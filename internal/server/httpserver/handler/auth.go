// Package handler provides HTTP request handlers for TaskHub.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/arvel/taskhub-go/internal/core/domain"
	"github.com/arvel/taskhub-go/internal/core/service"
)

// handleRegister handles POST /auth/register.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body")
		return
	}

	_, err := h.accounts.Register(r.Context(), &service.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.UsersRegistered.Inc()
	}
	h.logger.Info("user registered", "username", req.Username)

	h.writeJSON(w, http.StatusOK, MessageResponse{Msg: "User created successfully"})
}

// handleLogin handles POST /auth/login.
//
// Unknown usernames and wrong passwords produce the same response.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body")
		return
	}

	user, err := h.accounts.Verify(r.Context(), &service.VerifyRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		h.handleServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}

	h.writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
