// Package cache stores catalog responses in SQLite so repeated page views
// do not hit the network.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lepinkainen/shelf/internal/config"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

// DB is a SQLite-backed response cache. Entries are JSON blobs keyed by a
// caller-chosen string and stamped with the UTC time they were written.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
	now  func() time.Time
}

var (
	global     *DB
	globalOnce sync.Once
)

// Global returns the process-wide cache opened at cache.dbfile.
// A failed open is not remembered, so a later call can retry.
func Global() (*DB, error) {
	var err error
	globalOnce.Do(func() {
		path := viper.GetString("cache.dbfile")
		if path == "" {
			path = config.DefaultCacheDBFile
		}
		global, err = Open(path)
	})
	if err != nil {
		global = nil
		globalOnce = sync.Once{}
		return nil, err
	}
	return global, nil
}

// ResetGlobal closes the process-wide cache. The next Global call reopens it,
// picking up any change to cache.dbfile.
func ResetGlobal() error {
	var err error
	if global != nil {
		err = global.Close()
	}
	global = nil
	globalOnce = sync.Once{}
	return err
}

// Open opens the database at path and creates the cache tables.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		return nil, errors.Join(fmt.Errorf("connect to cache database %s: %w", path, err), db.Close())
	}

	for _, t := range Tables {
		if _, err := db.Exec(t.schema()); err != nil {
			return nil, errors.Join(fmt.Errorf("create table %s: %w", t, err), db.Close())
		}
	}

	return &DB{
		db:   db,
		path: path,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Path returns the database file backing the cache.
func (c *DB) Path() string {
	return c.path
}

// Get returns the entry for key if it is younger than ttl.
func (c *DB) Get(t Table, key string, ttl time.Duration) ([]byte, bool, error) {
	if !t.valid() {
		return nil, false, fmt.Errorf("invalid cache table: %s", t)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		data     []byte
		cachedAt time.Time
	)
	err := c.db.QueryRow(fmt.Sprintf(`SELECT data, cached_at FROM %s WHERE cache_key = ?`, t), key).
		Scan(&data, &cachedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("query %s: %w", t, err)
	}

	if age := c.now().Sub(cachedAt); age > ttl {
		slog.Debug("Cache entry expired", "table", t, "key", key, "age", age)
		return nil, false, nil
	}
	return data, true, nil
}

// Put stores data under key, replacing any previous entry.
func (c *DB) Put(t Table, key string, data []byte) error {
	if !t.valid() {
		return fmt.Errorf("invalid cache table: %s", t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, data, cached_at) VALUES (?, ?, ?)`, t)
	if _, err := c.db.Exec(query, key, data, c.now()); err != nil {
		return fmt.Errorf("write %s: %w", t, err)
	}
	return nil
}

// Has reports whether an entry exists for key, regardless of its age.
func (c *DB) Has(t Table, key string) bool {
	if !t.valid() {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var one int
	return c.db.QueryRow(fmt.Sprintf(`SELECT 1 FROM %s WHERE cache_key = ? LIMIT 1`, t), key).Scan(&one) == nil
}

// Clear deletes every entry in t.
func (c *DB) Clear(t Table) (int64, error) {
	return c.delete(t, "", nil)
}

// Prune deletes entries in t older than ttl.
func (c *DB) Prune(t Table, ttl time.Duration) (int64, error) {
	return c.delete(t, " WHERE cached_at < ?", []any{c.now().Add(-ttl)})
}

func (c *DB) delete(t Table, where string, args []any) (int64, error) {
	if !t.valid() {
		return 0, fmt.Errorf("invalid cache table: %s", t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s%s", t, where), args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", t, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	slog.Debug("Cache entries deleted", "table", t, "rows", n)
	return n, nil
}

// GetOrFetch returns the cached value for key, or calls fetch and caches
// its result. The boolean reports a cache hit.
//
// With the cache disabled, or when the database cannot be opened, fetch is
// called directly. Errors from fetch are returned unwrapped and never cached.
func GetOrFetch[T any](t Table, key string, fetch func() (T, error)) (T, bool, error) {
	if !config.CacheEnabled {
		v, err := fetch()
		return v, false, err
	}

	db, err := Global()
	if err != nil {
		slog.Warn("Response cache unavailable, fetching directly", "error", err)
		v, err := fetch()
		return v, false, err
	}

	data, hit, err := db.Get(t, key, config.CacheTTL())
	if err != nil {
		slog.Warn("Cache lookup failed", "table", t, "key", key, "error", err)
	}
	if hit {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			slog.Debug("Cache hit", "table", t, "key", key)
			return v, true, nil
		}
		slog.Warn("Discarding undecodable cache entry", "table", t, "key", key)
	}

	slog.Debug("Cache miss", "table", t, "key", key)
	v, err := fetch()
	if err != nil {
		var zero T
		return zero, false, err
	}

	encoded, err := json.Marshal(v)
	if err == nil {
		err = db.Put(t, key, encoded)
	}
	if err != nil {
		slog.Warn("Could not cache response", "table", t, "key", key, "error", err)
	}
	return v, false, nil
}
