// Package memory provides an in-memory store for users and tasks.
//
// It implements the same repository interfaces as the Badger store and is
// used for tests and for running the server without a data directory. A
// single mutex guards every mutation, so the read-then-write sequence of an
// update or delete is atomic.
package memory
