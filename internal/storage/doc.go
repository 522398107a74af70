// Package storage provides Badger-based persistence for users and tasks.
//
// Keys are laid out so that all tasks of one owner share a common prefix,
// which makes ownership-scoped lookups and listings a prefix operation:
//
//	u:id:<user-id>        -> user JSON
//	u:name:<username>     -> user-id (8 bytes, big endian)
//	t:<owner-id>:<task-id> -> task JSON
//
// Every mutation runs inside a single Badger update transaction, so the
// read-then-write sequence of an update or delete cannot interleave with
// another writer.
package storage
