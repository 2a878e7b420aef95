package store

import "context"

// Store is the external key-value collaborator used for scenario sets,
// the cursor, and the result log. Keys are plain strings with
// environment-scoped lifetime.
//
// Get reports whether the key was present; absent keys are not errors.
// Set overwrites unconditionally. Unset is a no-op for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Unset(ctx context.Context, key string) error
	Close() error
}
