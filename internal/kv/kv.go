// Package kv provides the key-value persistence substrate behind the
// account table and the per-user expense collections. Two implementations
// exist: a SQLite-backed durable store and an in-memory volatile store used
// for the active session.
package kv

import "context"

// Store is a flat key-value store. Values are opaque bytes; the services on
// top marshal JSON into them.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
