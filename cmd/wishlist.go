package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/fileutil"
)

// WishlistCmd lists or exports the wishlist
type WishlistCmd struct {
	Format    string `short:"f" help:"Output format" enum:"text,json,yaml" default:"text"`
	Output    string `short:"o" help:"Write to this file instead of stdout"`
	Overwrite bool   `help:"Replace an existing output file"`
	Offline   bool   `help:"Do not look up titles in the catalog"`
}

// wishlistEntry is one exported wishlist row.
type wishlistEntry struct {
	ID      int      `json:"id" yaml:"id"`
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Link    string   `json:"link" yaml:"link"`
}

// bookLookup is the part of the catalog client the export needs.
type bookLookup interface {
	Book(ctx context.Context, id int) (catalog.Book, error)
}

func (w *WishlistCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	var lookup bookLookup
	if !w.Offline {
		lookup = a.catalog
	}
	entries := resolveWishlist(ctx, lookup, a.wishlist.IDs())

	if w.Output != "" {
		written, err := w.writeFile(entries)
		if err != nil {
			return err
		}
		if written {
			slog.Info("Wishlist exported", "file", w.Output, "format", w.Format, "books", len(entries))
		}
		return nil
	}

	return writeWishlist(stdout, w.Format, entries)
}

func (w *WishlistCmd) writeFile(entries []wishlistEntry) (bool, error) {
	switch w.Format {
	case "json":
		return fileutil.WriteJSONFile(entries, w.Output, w.Overwrite)
	case "yaml":
		return fileutil.WriteYAMLFile(entries, w.Output, w.Overwrite)
	}
	var b strings.Builder
	if err := writeWishlist(&b, "text", entries); err != nil {
		return false, err
	}
	return fileutil.WriteFileWithOverwrite(w.Output, []byte(b.String()), 0o644, w.Overwrite)
}

// resolveWishlist turns IDs into entries, filling titles from lookup when it
// is non-nil. Lookup failures are logged and leave the title empty.
func resolveWishlist(ctx context.Context, lookup bookLookup, ids []int) []wishlistEntry {
	entries := make([]wishlistEntry, 0, len(ids))
	for _, id := range ids {
		entry := wishlistEntry{ID: id, Link: catalog.Book{ID: id}.DetailLink()}
		if lookup != nil {
			book, err := lookup.Book(ctx, id)
			if err != nil {
				slog.Warn("Could not resolve wishlist book", "id", id, "error", err)
			} else {
				entry.Title = book.Title
				entry.Authors = book.Authors
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func writeWishlist(out io.Writer, format string, entries []wishlistEntry) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "The wishlist is empty.")
		return err
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(title unknown)"
		}
		line := fmt.Sprintf("%6d  %s", e.ID, title)
		if len(e.Authors) > 0 {
			line += " - " + strings.Join(e.Authors, ", ")
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
