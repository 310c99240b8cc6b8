package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Genre is a genre shortcut offered by the filter picker. Topic is sent to
// the catalog as-is; an empty Topic clears the filter.
type Genre struct {
	Name  string
	Topic string
}

// Genres are the filter shortcuts shown in the picker.
var Genres = []Genre{
	{Name: "All genres", Topic: ""},
	{Name: "Fiction", Topic: "fiction"},
	{Name: "Adventure", Topic: "adventure"},
	{Name: "Children's", Topic: "children"},
	{Name: "Drama", Topic: "drama"},
	{Name: "Fantasy", Topic: "fantasy"},
	{Name: "History", Topic: "history"},
	{Name: "Horror", Topic: "horror"},
	{Name: "Humor", Topic: "humor"},
	{Name: "Mystery", Topic: "mystery"},
	{Name: "Philosophy", Topic: "philosophy"},
	{Name: "Poetry", Topic: "poetry"},
	{Name: "Romance", Topic: "romance"},
	{Name: "Science", Topic: "science"},
	{Name: "Science Fiction", Topic: "science fiction"},
}

type genreItem struct {
	Genre
}

func (i genreItem) Title() string       { return i.Name }
func (i genreItem) FilterValue() string { return i.Name }
func (i genreItem) Description() string { return i.Topic }

type genreDelegate struct {
	styles itemStyles
}

func (d genreDelegate) Height() int                         { return 1 }
func (d genreDelegate) Spacing() int                        { return 0 }
func (d genreDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d genreDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	genre, ok := item.(genreItem)
	if !ok {
		return
	}

	label := genre.Name
	if genre.Topic != "" && !strings.EqualFold(genre.Topic, genre.Name) {
		label = fmt.Sprintf("%s (%s)", genre.Name, genre.Topic)
	}

	if idx == m.Index() {
		_, _ = fmt.Fprint(w, d.styles.titleStyle.Render("> "+label))
		return
	}
	_, _ = fmt.Fprint(w, "  "+d.styles.authorStyle.Render(label))
}

// newGenreList builds the picker with the entry for current preselected.
func newGenreList(current string) list.Model {
	items := make([]list.Item, len(Genres))
	selected := 0
	for i, g := range Genres {
		items[i] = genreItem{Genre: g}
		if strings.EqualFold(g.Topic, current) {
			selected = i
		}
	}

	l := list.New(items, genreDelegate{styles: newItemStyles()}, defaultListWidth, len(Genres))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Select(selected)
	return l
}

// GenreName returns the display name for topic, or topic itself when it is
// not one of the shortcuts.
func GenreName(topic string) string {
	for _, g := range Genres {
		if strings.EqualFold(g.Topic, topic) {
			return g.Name
		}
	}
	return topic
}
