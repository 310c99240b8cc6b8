// Package store provides the key-value persistence behind preferences and
// the wishlist.
package store

import (
	"context"
	"fmt"
)

// Store is a string key-value store. A missing key is not an error: Get
// reports it with ok == false.
type Store interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying connection.
	Close() error
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend string // "sqlite" (default) or "redis"

	// SQLite
	DBFile string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// Open connects the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "sqlite":
		return OpenSQLite(ctx, opts.DBFile)
	case "redis":
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown store backend %q; valid backends are: sqlite, redis", opts.Backend)
	}
}
