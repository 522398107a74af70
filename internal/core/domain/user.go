// Package domain defines the core domain models for TaskHub.
package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for password hashing.
const (
	// Argon2Memory is the memory parameter in KB (16 MB).
	Argon2Memory uint32 = 16384

	// Argon2Time is the iteration count.
	Argon2Time uint32 = 2

	// Argon2Parallelism is the parallelism factor.
	Argon2Parallelism uint8 = 2

	// Argon2KeyLen is the output hash length in bytes.
	Argon2KeyLen uint32 = 32

	// Argon2SaltLen is the per-user random salt length in bytes.
	Argon2SaltLen = 16
)

// MaxUsernameLength is the maximum accepted username length.
const MaxUsernameLength = 64

// User represents a registered account.
//
// The password is never stored; only an Argon2id hash with a per-user
// random salt is persisted, and it is excluded from JSON output.
type User struct {
	// ID is the unique account identifier.
	ID uint64 `json:"id"`

	// Username is the unique login name (case-sensitive).
	Username string `json:"username"`

	// PasswordHash is the Argon2id hash in PHC string format (never exposed).
	PasswordHash string `json:"-"`

	// CreatedAt is the registration timestamp (Unix MS).
	CreatedAt int64 `json:"created_at"`
}

// NewUser creates a User with a freshly hashed password.
// The ID is assigned by the store on insert.
func NewUser(username, password string) (*User, error) {
	u := &User{
		Username:  username,
		CreatedAt: currentTimeMillis(),
	}

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrUserValidation.WithDetails("password is required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, ErrInternalServer.WithCause(err)
	}
	u.PasswordHash = hash

	return u, nil
}

func validateUsername(username string) error {
	if username == "" {
		return ErrUserValidation.WithDetails("username is required")
	}
	if len(username) > MaxUsernameLength {
		return ErrUserValidation.WithDetails("username exceeds 64 characters")
	}
	return nil
}

// Validate validates the user fields.
func (u *User) Validate() error {
	var violations []string

	if err := validateUsername(u.Username); err != nil {
		violations = append(violations, "username invalid")
	}
	if u.PasswordHash == "" {
		violations = append(violations, "password_hash is required")
	}

	if len(violations) > 0 {
		return ErrUserValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return VerifyPassword(password, u.PasswordHash)
}

// Clone creates a copy of the user.
func (u *User) Clone() *User {
	clone := *u
	return &clone
}

// CreatedAtTime returns CreatedAt as time.Time.
func (u *User) CreatedAtTime() time.Time {
	return time.UnixMilli(u.CreatedAt)
}

// HashPassword computes an Argon2id hash of the password with a random salt.
// Returns the hash in the format: $argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>
func HashPassword(password string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)

	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(hash)

	return "$argon2id$v=19$m=16384,t=2,p=2$" + saltB64 + "$" + hashB64, nil
}

// VerifyPassword verifies a password against an Argon2id hash string.
// Hash format: $argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>
func VerifyPassword(password, hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false
	}

	if parts[1] != "argon2id" {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Parallelism, uint32(len(expected)))

	// Constant-time comparison to prevent timing attacks.
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// currentTimeMillis returns the current Unix timestamp in milliseconds.
// This is a package-level function to enable testing with mock time.
var currentTimeMillis = func() int64 {
	return timeNow().UnixMilli()
}

// timeNow is a hook for testing.
var timeNow = time.Now
