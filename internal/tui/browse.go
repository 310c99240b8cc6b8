package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/shelf/internal/browse"
	"github.com/lepinkainen/shelf/internal/view"
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeJump
	modeGenre
	modeDetail
)

// fetchedMsg reports a settled page fetch. The session has already applied
// or discarded the result by the time it arrives.
type fetchedMsg struct {
	ticket  browse.Ticket
	applied bool
	err     error
}

type model struct {
	ctx     context.Context
	session *browse.Session

	books   list.Model
	genres  list.Model
	input   textinput.Model
	spinner spinner.Model

	mode   mode
	detail *view.Card
	status string
	width  int
	start  browse.Ticket
}

func newModel(ctx context.Context, session *browse.Session, start browse.Ticket) *model {
	input := textinput.New()
	input.CharLimit = 200
	input.Cursor.SetMode(cursor.CursorStatic)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &model{
		ctx:     ctx,
		session: session,
		books:   newBookList(),
		genres:  newGenreList(session.Genre()),
		input:   input,
		spinner: spin,
		width:   defaultListWidth,
		start:   start,
	}
}

func (m *model) Init() tea.Cmd {
	return m.fetch(m.start)
}

// fetch runs the request for t off the UI goroutine.
func (m *model) fetch(t browse.Ticket) tea.Cmd {
	session := m.session
	ctx := m.ctx
	load := func() tea.Msg {
		applied, err := session.Fetch(ctx, t)
		return fetchedMsg{ticket: t, applied: applied, err: err}
	}
	return tea.Batch(load, m.spinner.Tick)
}

func (m *model) refresh() {
	index := m.books.Index()
	m.books.SetItems(bookItems(m.session.View().Cards))
	if index < len(m.books.Items()) {
		m.books.Select(index)
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg:
		if msg.applied {
			m.status = ""
			m.books.SetItems(bookItems(m.session.View().Cards))
			m.books.Select(0)
		} else if msg.err != nil && errors.Is(m.session.Err(), msg.err) {
			m.status = "Error fetching books: " + msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.session.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-8, 5)
		m.books.SetSize(m.width, height)
		m.genres.SetSize(m.width, clamp(len(Genres), msg.Height-6, 5))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch, modeJump:
			return m.updateInput(msg)
		case modeGenre:
			return m.updateGenre(msg)
		case modeDetail:
			return m.updateDetail(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.books, cmd = m.books.Update(msg)
	return m, cmd
}

func (m *model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/":
		m.openInput(modeSearch, "Search: ", m.session.Term())
		return m, nil
	case ":":
		m.openInput(modeJump, "Page: ", "")
		return m, nil
	case "g":
		m.genres = newGenreList(m.session.Genre())
		m.mode = modeGenre
		return m, nil
	case "right", "n":
		return m, m.goToPage(m.session.CurrentPage() + 1)
	case "left", "p":
		return m, m.goToPage(m.session.CurrentPage() - 1)
	case "r":
		return m, m.fetch(m.session.Reload())
	case "l":
		if item, ok := m.books.SelectedItem().(bookItem); ok {
			m.toggleLike(item.ID)
		}
		return m, nil
	case "enter":
		if item, ok := m.books.SelectedItem().(bookItem); ok {
			card := item.Card
			m.detail = &card
			m.mode = modeDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.books, cmd = m.books.Update(msg)
	return m, cmd
}

func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInput()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		inputMode := m.mode
		m.closeInput()

		if inputMode == modeSearch {
			return m, m.fetch(m.session.Search(m.ctx, value))
		}
		page, err := strconv.Atoi(value)
		if err != nil || page < 1 {
			m.status = fmt.Sprintf("Not a page number: %q", value)
			return m, nil
		}
		return m, m.goToPage(page)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) updateGenre(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
		return m, nil
	case "enter":
		m.mode = modeBrowse
		if item, ok := m.genres.SelectedItem().(genreItem); ok {
			return m, m.fetch(m.session.FilterGenre(m.ctx, item.Topic))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.genres, cmd = m.genres.Update(msg)
	return m, cmd
}

func (m *model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q", "backspace":
		m.detail = nil
		m.mode = modeBrowse
	case "l":
		if m.detail != nil {
			m.detail.Liked = m.toggleLike(m.detail.ID)
		}
	}
	return m, nil
}

func (m *model) goToPage(page int) tea.Cmd {
	if page < 1 || page > m.session.TotalPages() {
		return nil
	}
	ticket, ok := m.session.GoToPage(page)
	if !ok {
		return nil
	}
	return m.fetch(ticket)
}

func (m *model) toggleLike(id int) bool {
	liked, err := m.session.ToggleLike(m.ctx, id)
	if err != nil {
		m.status = "Could not save wishlist: " + err.Error()
	}
	m.refresh()
	return liked
}

func (m *model) openInput(next mode, prompt, value string) {
	m.mode = next
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *model) closeInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
}

func (m *model) View() string {
	if m.mode == modeDetail && m.detail != nil {
		return m.detailView()
	}

	var sections []string
	sections = append(sections, m.header())

	switch m.mode {
	case modeGenre:
		sections = append(sections, subtleStyle.Render("Filter by genre"), m.genres.View())
	default:
		sections = append(sections, m.books.View())
		sections = append(sections, view.ControlBar(m.session.View().Controls))
	}

	if m.mode == modeSearch || m.mode == modeJump {
		sections = append(sections, m.input.View())
	}
	if m.status != "" {
		sections = append(sections, errorStyle.Render(m.status))
	}
	sections = append(sections, helpStyle.Render(m.help()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) header() string {
	parts := []string{headerStyle.Render("Gutendex")}
	if term := m.session.Term(); term != "" {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("search %q", term)))
	}
	if genre := m.session.Genre(); genre != "" {
		parts = append(parts, subtleStyle.Render("genre "+GenreName(genre)))
	}
	parts = append(parts, subtleStyle.Render(fmt.Sprintf("page %d/%d", m.session.CurrentPage(), m.session.TotalPages())))
	if m.session.Busy() {
		parts = append(parts, m.spinner.View()+" loading")
	}
	return strings.Join(parts, "  ")
}

func (m *model) detailView() string {
	card := m.detail
	lines := []string{
		card.LikeMarker() + " " + headerStyle.Render(card.Title),
		"",
		"Author(s): " + orDash(card.Authors),
		"Genres:    " + orDash(card.Genres),
		"ID:        " + strconv.Itoa(card.ID),
		"Cover:     " + orDash(card.CoverURL),
		"Link:      " + card.DetailLink,
	}
	body := lipgloss.NewStyle().Width(m.width).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, body, helpStyle.Render("l like | esc back"))
}

func (m *model) help() string {
	switch m.mode {
	case modeSearch, modeJump:
		return "enter apply | esc cancel"
	case modeGenre:
		return "up/down choose | enter apply | esc cancel"
	}
	return "/ search | g genre | left/right page | : jump | l like | enter details | r reload | q quit"
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("161")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// Run starts the session and runs the interactive browser until the user quits.
func Run(ctx context.Context, session *browse.Session) error {
	m := newModel(ctx, session, session.Start(ctx))
	if _, err := runProgram(m); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
