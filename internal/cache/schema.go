package cache

import "fmt"

// Table names a cache table. Only the constants below are accepted; the
// name is interpolated into SQL.
type Table string

const (
	// SearchTable holds one catalog result page per (base URL, page, term, genre).
	SearchTable Table = "search_cache"
	// BookTable holds single book records keyed by base URL and ID.
	BookTable Table = "book_cache"
)

// Tables lists every cache table, in the order they are created.
var Tables = []Table{SearchTable, BookTable}

func (t Table) valid() bool {
	for _, known := range Tables {
		if t == known {
			return true
		}
	}
	return false
}

func (t Table) schema() string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data BLOB NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_cached_at ON %[1]s(cached_at);
`, string(t))
}
