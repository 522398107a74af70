// Package domain defines the core domain models for TaskHub.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - User: Registered account with salted password hashing
//   - Task: Owner-scoped task entity with status lifecycle
//   - TaskPatch: Explicit partial-update carrier with field presence
//   - Errors: Domain-specific error definitions
//
// All domain models implement validation and safe cloning.
package domain
