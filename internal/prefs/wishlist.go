package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/lepinkainen/shelf/internal/store"
)

// Wishlist is the set of liked book IDs, kept in insertion order and
// written back to the store after every change.
type Wishlist struct {
	kv  store.Store
	ids []int
}

// NewWishlist creates an empty wishlist over kv. Call Load to read the
// persisted list.
func NewWishlist(kv store.Store) *Wishlist {
	return &Wishlist{kv: kv}
}

// Load replaces the in-memory list with the persisted one. A corrupt value
// is logged and treated as an empty list; duplicate IDs are dropped.
func (w *Wishlist) Load(ctx context.Context) error {
	raw, ok, err := w.kv.Get(ctx, KeyWishlist)
	if err != nil {
		return fmt.Errorf("load wishlist: %w", err)
	}

	w.ids = nil
	if !ok || raw == "" {
		return nil
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		slog.Warn("Ignoring unreadable wishlist", "error", err)
		return nil
	}

	for _, id := range ids {
		if !slices.Contains(w.ids, id) {
			w.ids = append(w.ids, id)
		}
	}
	return nil
}

// IsLiked reports whether id is on the wishlist.
func (w *Wishlist) IsLiked(id int) bool {
	return slices.Contains(w.ids, id)
}

// Toggle removes id if present, otherwise appends it, then persists the
// whole list. It returns the new membership of id. On a persistence error
// the in-memory change is rolled back.
func (w *Wishlist) Toggle(ctx context.Context, id int) (bool, error) {
	prev := slices.Clone(w.ids)

	liked := true
	if i := slices.Index(w.ids, id); i >= 0 {
		w.ids = slices.Delete(w.ids, i, i+1)
		liked = false
	} else {
		w.ids = append(w.ids, id)
	}

	if err := w.save(ctx); err != nil {
		w.ids = prev
		return !liked, err
	}
	return liked, nil
}

// IDs returns a copy of the liked IDs in persisted order.
func (w *Wishlist) IDs() []int {
	return slices.Clone(w.ids)
}

// Len returns the number of liked books.
func (w *Wishlist) Len() int {
	return len(w.ids)
}

func (w *Wishlist) save(ctx context.Context) error {
	ids := w.ids
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	if err := w.kv.Set(ctx, KeyWishlist, string(data)); err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}
	return nil
}
