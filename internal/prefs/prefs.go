// Package prefs persists the last search term, the selected genre, and the
// wishlist of liked book IDs.
package prefs

import (
	"context"
	"fmt"

	"github.com/lepinkainen/shelf/internal/store"
)

// Keys used in the key-value store.
const (
	KeySearchTerm    = "searchTerm"
	KeySelectedGenre = "selectedGenre"
	KeyWishlist      = "wishlist"
)

// Preferences are the last search inputs the user entered.
type Preferences struct {
	Term  string `json:"term" yaml:"term"`
	Genre string `json:"genre" yaml:"genre"`
}

// Store reads and writes Preferences.
type Store struct {
	kv store.Store
}

// NewStore creates a preference store over kv.
func NewStore(kv store.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the saved preferences. Keys that were never saved come back
// as empty strings.
func (s *Store) Load(ctx context.Context) (Preferences, error) {
	term, _, err := s.kv.Get(ctx, KeySearchTerm)
	if err != nil {
		return Preferences{}, fmt.Errorf("load search term: %w", err)
	}
	genre, _, err := s.kv.Get(ctx, KeySelectedGenre)
	if err != nil {
		return Preferences{}, fmt.Errorf("load genre: %w", err)
	}
	return Preferences{Term: term, Genre: genre}, nil
}

// Save overwrites both values unconditionally.
func (s *Store) Save(ctx context.Context, term, genre string) error {
	if err := s.kv.Set(ctx, KeySearchTerm, term); err != nil {
		return fmt.Errorf("save search term: %w", err)
	}
	if err := s.kv.Set(ctx, KeySelectedGenre, genre); err != nil {
		return fmt.Errorf("save genre: %w", err)
	}
	return nil
}

// Reset forgets the saved term and genre.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{KeySearchTerm, KeySelectedGenre} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset preferences: %w", err)
		}
	}
	return nil
}
