package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/pagination"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	authorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	genreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	likedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	controlStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// RenderText writes the model as plain text: one block per card followed by
// the pagination bar.
func RenderText(w io.Writer, m Model) error {
	var b strings.Builder

	if len(m.Cards) == 0 {
		b.WriteString(emptyStyle.Render("No books found."))
		b.WriteString("\n")
	}

	for i, card := range m.Cards {
		if i > 0 {
			b.WriteString("\n")
		}
		writeCard(&b, card)
	}

	if bar := ControlBar(m.Controls); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, card Card) {
	marker := card.LikeMarker()
	if card.Liked {
		marker = likedStyle.Render(marker)
	}
	fmt.Fprintf(b, "%s %s  #%d\n", marker, titleStyle.Render(card.Title), card.ID)
	if card.Authors != "" {
		fmt.Fprintf(b, "  %s\n", authorStyle.Render(card.Authors))
	}
	if card.Genres != "" {
		fmt.Fprintf(b, "  %s\n", genreStyle.Render(card.Genres))
	}
	fmt.Fprintf(b, "  %s\n", linkStyle.Render(card.DetailLink))
}

// ControlBar renders pagination controls on one line; the active page is
// shown as [n].
func ControlBar(controls []pagination.Control) string {
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		switch {
		case c.Ellipsis:
			parts = append(parts, controlStyle.Render(c.Label()))
		case c.Active:
			parts = append(parts, activeStyle.Render("["+c.Label()+"]"))
		default:
			parts = append(parts, controlStyle.Render(c.Label()))
		}
	}
	return strings.Join(parts, " ")
}

// RenderBook writes the detail view of a single book.
func RenderBook(w io.Writer, book catalog.Book, liked bool) error {
	card := Card{ID: book.ID, Liked: liked}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", card.LikeMarker(), titleStyle.Render(book.Title))
	writeField(&b, "ID", fmt.Sprintf("%d", book.ID))
	writeField(&b, "Authors", strings.Join(book.Authors, ", "))
	writeField(&b, "Genres", strings.Join(book.CleanGenres(), ", "))
	writeField(&b, "Subjects", strings.Join(book.Subjects, "; "))
	writeField(&b, "Languages", strings.Join(book.Languages, ", "))
	if book.DownloadCount > 0 {
		writeField(&b, "Downloads", fmt.Sprintf("%d", book.DownloadCount))
	}
	writeField(&b, "Cover", book.CoverURL)
	writeField(&b, "Link", book.DetailLink())

	_, err := io.WriteString(w, b.String())
	return err
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %-10s %s\n", label+":", value)
}
