// Package handler provides HTTP request handlers for TaskHub.
package handler

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse is the body for endpoints that report a status message,
// such as registration and task deletion.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateTaskRequest is the request body for POST /tasks/.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTaskRequest is the request body for PUT /tasks/{id}.
//
// Pointer fields distinguish "absent" from "explicitly set": a missing key
// leaves the stored value untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskResponse represents a task in API responses.
// Description is null when unset.
type TaskResponse struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}
