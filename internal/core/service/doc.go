// Package service provides domain services for TaskHub.
//
// Domain services contain pure business logic and orchestrate operations
// on domain models. They define interfaces for storage dependencies,
// allowing for dependency injection and testability.
//
// This package contains:
//
//   - AccountService: Registration and credential verification
//   - TokenService: Signed bearer token issuance and verification
//   - TaskService: Owner-scoped task CRUD
//
// Services are stateless and thread-safe; every blocking operation takes
// a context.Context.
package service
