// Package service provides domain services for TaskHub.
//
// TokenService issues and verifies signed, time-bound bearer tokens.
package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arvel/taskhub-go/internal/core/domain"
)

// DefaultTokenTTL is the default token lifetime.
const DefaultTokenTTL = 24 * time.Hour

// TokenServiceConfig holds configuration for TokenService.
type TokenServiceConfig struct {
	// SigningKey is the HMAC key used to sign and verify tokens.
	// Loaded once at startup; never logged.
	SigningKey []byte

	// TTL is the token lifetime (default: 24h).
	TTL time.Duration
}

// TokenService issues and verifies HS256-signed bearer tokens carrying a
// subject (username) claim and an expiry.
//
// Tokens are stateless: nothing is stored server-side, and validity is
// determined purely by the signature and expiry checks at verification time.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg TokenServiceConfig) (*TokenService, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, domain.ErrMissingArgument.WithDetails("signing key is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		signingKey: cfg.SigningKey,
		ttl:        ttl,
	}, nil
}

// Issue produces a signed token embedding the subject claim and an expiry.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := tokenTimeNow()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", domain.ErrInternalServer.WithCause(err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its subject.
//
// Failures are reported as domain.ErrTokenMalformed, domain.ErrTokenSignature,
// domain.ErrTokenExpired, or domain.ErrTokenInvalid. The HTTP boundary
// collapses all of them into a single unauthorized outcome so clients cannot
// learn which check failed.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", domain.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", domain.ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrTokenExpired
		default:
			return "", domain.ErrTokenInvalid.WithCause(err)
		}
	}

	if claims.Subject == "" {
		return "", domain.ErrTokenMalformed.WithDetails("missing subject claim")
	}

	return claims.Subject, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// tokenTimeNow is a hook for testing.
var tokenTimeNow = time.Now
