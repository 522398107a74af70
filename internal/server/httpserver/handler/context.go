// Package handler provides HTTP request handlers for TaskHub.
package handler

import (
	"context"

	"github.com/arvel/taskhub-go/internal/core/domain"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

// userKey is the context key under which the auth middleware stores the
// resolved account.
const userKey contextKey = "taskhub.user"

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from context.
// Returns nil when the request did not pass the auth middleware.
func UserFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(userKey).(*domain.User); ok {
		return user
	}
	return nil
}
