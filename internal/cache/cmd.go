package cache

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lepinkainen/shelf/internal/config"
)

// sources maps the names accepted on the command line to cache tables.
var sources = map[string]Table{
	"search": SearchTable,
	"book":   BookTable,
}

// ClearCacheCmd is `shelf cache clear [source]`.
type ClearCacheCmd struct {
	Source string `arg:"" optional:"" help:"Cache to clear: search, book (default: all)"`
}

func (c *ClearCacheCmd) Run() error {
	tables := Tables
	if c.Source != "" {
		t, ok := sources[c.Source]
		if !ok {
			return fmt.Errorf("invalid cache source %q; valid sources are: %s", c.Source, sourceNames())
		}
		tables = []Table{t}
	}

	db, err := Global()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	for _, t := range tables {
		n, err := db.Clear(t)
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		slog.Info("Cache cleared", "table", t, "database", db.Path(), "rows_deleted", n)
	}
	return nil
}

// PruneCacheCmd is `shelf cache prune`: it drops entries older than cache.ttl.
type PruneCacheCmd struct{}

func (c *PruneCacheCmd) Run() error {
	db, err := Global()
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	ttl := config.CacheTTL()
	for _, t := range Tables {
		n, err := db.Prune(t, ttl)
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}
		slog.Info("Expired cache entries removed", "table", t, "ttl", ttl, "rows_deleted", n)
	}
	return nil
}

func sourceNames() string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
