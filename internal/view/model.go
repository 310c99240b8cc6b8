// Package view turns a page of catalog results into a display model and
// renders it as text. The model is pure data so the CLI and the TUI can
// bind it differently.
package view

import (
	"strings"

	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/pagination"
)

// LikeChecker reports wishlist membership. *prefs.Wishlist satisfies it.
type LikeChecker interface {
	IsLiked(id int) bool
}

// Card is one book as displayed.
type Card struct {
	ID         int
	Title      string
	Authors    string
	Genres     string
	CoverURL   string
	DetailLink string
	Liked      bool
}

// Model is everything needed to paint one page.
type Model struct {
	Cards    []Card
	Controls []pagination.Control
	Count    int
}

// Build maps a page result, the wishlist and a pagination plan to a Model.
// A nil wishlist marks every card as not liked.
func Build(result catalog.PageResult, wishlist LikeChecker, plan []pagination.Control) Model {
	cards := make([]Card, 0, len(result.Books))
	for _, book := range result.Books {
		cards = append(cards, NewCard(book, wishlist))
	}

	controls := make([]pagination.Control, len(plan))
	copy(controls, plan)

	return Model{Cards: cards, Controls: controls, Count: result.Count}
}

// NewCard builds the display card for a single book.
func NewCard(book catalog.Book, wishlist LikeChecker) Card {
	return Card{
		ID:         book.ID,
		Title:      book.Title,
		Authors:    strings.Join(book.Authors, ", "),
		Genres:     strings.Join(book.CleanGenres(), ", "),
		CoverURL:   book.CoverURL,
		DetailLink: book.DetailLink(),
		Liked:      wishlist != nil && wishlist.IsLiked(book.ID),
	}
}

// LikeMarker is the heart shown on a card.
func (c Card) LikeMarker() string {
	if c.Liked {
		return "❤️"
	}
	return "♡"
}

// ActivePage returns the page marked active in the controls, or 0.
func (m Model) ActivePage() int {
	for _, c := range m.Controls {
		if c.Active {
			return c.Page
		}
	}
	return 0
}
