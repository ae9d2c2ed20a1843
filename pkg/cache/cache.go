// Package cache stores rendered cards so identical requests skip the
// renderer.
//
// # Backends
//
//   - [NullCache]: stores nothing (the default)
//   - [FileCache]: JSON entries with expiry under a local directory
//   - [RedisCache]: shared cache for several server instances
//
// # Keys
//
// A [Keyer] turns everything that influences the pixels of a card into a
// key: the background content hash, title, message, style values and font
// identities. The user id is deliberately not part of the key, so the same
// card requested by two users renders once.
//
// Layouts are never cached; only encoded PNG bytes are.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss returns ok=false and no error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
