// Package tui provides the interactive terminal browser.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/shelf/internal/view"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

type bookItem struct {
	view.Card
}

func (i bookItem) Title() string {
	return i.Card.Title
}

func (i bookItem) FilterValue() string {
	return i.Card.Title
}

func (i bookItem) Description() string {
	return i.Authors
}

type itemStyles struct {
	normal      lipgloss.Style
	selected    lipgloss.Style
	titleStyle  lipgloss.Style
	likedStyle  lipgloss.Style
	authorStyle lipgloss.Style
	genreStyle  lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		likedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),
		authorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")),
		genreStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newBookDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 5 }
func (d bookDelegate) Spacing() int                        { return 0 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	width := m.Width() - 4
	marker := book.LikeMarker()
	if book.Liked {
		marker = d.styles.likedStyle.Render(marker)
	}

	titleLine := marker + " " + d.styles.titleStyle.Render(truncate(book.Card.Title, width-3))
	authorLine := d.styles.authorStyle.Render(truncate(orDash(book.Authors), width))
	genreLine := d.styles.genreStyle.Render(truncate(orDash(book.Genres), width))

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, authorLine, genreLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

func newBookList() list.Model {
	l := list.New(nil, newBookDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	return l
}

func bookItems(cards []view.Card) []list.Item {
	items := make([]list.Item, len(cards))
	for i, card := range cards {
		items[i] = bookItem{Card: card}
	}
	return items
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
