// Package domain defines the core domain models for TaskHub.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "TH-TASK-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// User / Credential Errors (USER, AUTH)
// ============================================================================

var (
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = NewDomainError("TH-USER-4090", "username already registered")

	// ErrUserNotFound indicates the referenced user account does not exist.
	ErrUserNotFound = NewDomainError("TH-USER-4040", "user not found")

	// ErrUserValidation indicates user data validation failed.
	ErrUserValidation = NewDomainError("TH-USER-4001", "user validation failed")

	// ErrInvalidCredentials is the uniform login failure. It deliberately
	// covers both unknown-username and wrong-password so the API does not
	// permit username enumeration.
	ErrInvalidCredentials = NewDomainError("TH-AUTH-4000", "invalid credentials")

	// ErrUnauthenticated indicates a request without usable credentials.
	ErrUnauthenticated = NewDomainError("TH-AUTH-4010", "authentication required")
)

// ============================================================================
// Token Errors (TOKN)
// ============================================================================

var (
	// ErrTokenMalformed indicates the token could not be parsed.
	ErrTokenMalformed = NewDomainError("TH-TOKN-4000", "malformed token")

	// ErrTokenSignature indicates the token signature does not verify.
	ErrTokenSignature = NewDomainError("TH-TOKN-4010", "invalid token signature")

	// ErrTokenExpired indicates the token is past its expiry claim.
	ErrTokenExpired = NewDomainError("TH-TOKN-4011", "token expired")

	// ErrTokenInvalid indicates the token failed verification for any other reason.
	ErrTokenInvalid = NewDomainError("TH-TOKN-4012", "invalid token")
)

// ============================================================================
// Task Errors (TASK)
// ============================================================================

var (
	// ErrTaskNotFound indicates no task with the given id exists for the
	// requesting owner. A task owned by another user reports the same error.
	ErrTaskNotFound = NewDomainError("TH-TASK-4040", "task not found")

	// ErrTaskValidation indicates task data validation failed.
	ErrTaskValidation = NewDomainError("TH-TASK-4001", "task validation failed")
)

// ============================================================================
// System Errors (SYS) and Argument Errors (ARG)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("TH-SYS-5000", "internal server error")

	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("TH-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("TH-SYS-4000", "bad request")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("TH-SYS-4290", "too many requests")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("TH-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("TH-ARG-1002", "missing required argument")
)
