// Package browse holds the state of one browsing session: the active query,
// the page on screen, the busy indicator, and request sequencing so that
// only the most recently issued fetch can update what is displayed.
package browse

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/pagination"
	"github.com/lepinkainen/shelf/internal/prefs"
	"github.com/lepinkainen/shelf/internal/view"
)

// Catalog is the part of the catalog client a session needs.
type Catalog interface {
	Search(ctx context.Context, q catalog.Query) (catalog.PageResult, error)
	Book(ctx context.Context, id int) (catalog.Book, error)
}

// Ticket identifies one issued fetch. Only the ticket with the highest Seq
// may update the session.
type Ticket struct {
	Seq   uint64
	Query catalog.Query
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	catalog  Catalog
	prefs    *prefs.Store
	wishlist *prefs.Wishlist

	term       string
	genre      string
	page       int
	totalPages int
	result     catalog.PageResult
	loaded     bool

	seq      uint64
	inflight int
	lastErr  error
}

// New creates a session. Call Start before issuing fetches.
func New(c Catalog, p *prefs.Store, w *prefs.Wishlist) *Session {
	return &Session{
		catalog:    c,
		prefs:      p,
		wishlist:   w,
		page:       1,
		totalPages: 1,
	}
}

// Start loads the saved preferences and wishlist and returns the ticket for
// the first page. Load failures are logged and the session starts empty.
func (s *Session) Start(ctx context.Context) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.wishlist.Load(ctx); err != nil {
		slog.Error("Failed to load wishlist", "error", err)
	}

	saved, err := s.prefs.Load(ctx)
	if err != nil {
		slog.Error("Failed to load preferences", "error", err)
	}
	s.term = saved.Term
	s.genre = saved.Genre

	return s.beginLocked(1)
}

// Search saves term as the new search term and returns the ticket for
// page 1 of the new results.
func (s *Session) Search(ctx context.Context, term string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.term = term
	s.savePrefsLocked(ctx)
	return s.beginLocked(1)
}

// FilterGenre saves genre as the selected genre and returns the ticket for
// page 1 of the filtered results.
func (s *Session) FilterGenre(ctx context.Context, genre string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.genre = genre
	s.savePrefsLocked(ctx)
	return s.beginLocked(1)
}

// Open sets term and genre together, saves them, and returns the ticket
// for the given page. Used by one-shot commands that know the page up front.
func (s *Session) Open(ctx context.Context, term, genre string, page int) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.term = term
	s.genre = genre
	s.savePrefsLocked(ctx)
	return s.beginLocked(page)
}

// GoToPage returns the ticket for page n with the current filters. It
// reports false, issuing nothing, when n is already displayed.
func (s *Session) GoToPage(n int) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n = pagination.Clamp(s.totalPages, n)
	if s.loaded && n == s.page {
		return Ticket{}, false
	}
	return s.beginLocked(n), true
}

// Reload returns a ticket for the current page with the current filters.
func (s *Session) Reload() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.beginLocked(s.page)
}

// Fetch runs the catalog request for t and applies the result. It reports
// whether the result was applied; stale results are dropped silently.
func (s *Session) Fetch(ctx context.Context, t Ticket) (bool, error) {
	result, err := s.catalog.Search(ctx, t.Query)
	return s.Complete(t, result, err), err
}

// Complete settles the fetch for t. The busy count is always released. A
// failed or stale fetch leaves the displayed page untouched.
func (s *Session) Complete(t Ticket, result catalog.PageResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if s.inflight > 0 {
			s.inflight--
		}
	}()

	if t.Seq != s.seq {
		slog.Debug("Discarding stale result", "seq", t.Seq, "latest", s.seq)
		return false
	}

	if err != nil {
		s.lastErr = err
		slog.Error("Error fetching books", "page", t.Query.Page, "error", err)
		return false
	}

	s.lastErr = nil
	s.result = result
	s.totalPages, s.page = pagination.Clamp(pagination.TotalPages(result.Count), t.Query.Page)
	s.loaded = true
	return true
}

// Book looks up a single book for the detail view.
func (s *Session) Book(ctx context.Context, id int) (catalog.Book, error) {
	return s.catalog.Book(ctx, id)
}

// ToggleLike flips wishlist membership for id and reports the new state.
func (s *Session) ToggleLike(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wishlist.Toggle(ctx, id)
}

// IsLiked reports whether id is on the wishlist.
func (s *Session) IsLiked(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wishlist.IsLiked(id)
}

// View builds the display model for the page on screen.
func (s *Session) View() view.Model {
	s.mu.Lock()
	defer s.mu.Unlock()

	return view.Build(s.result, s.wishlist, pagination.Plan(s.totalPages, s.page))
}

// Busy reports whether any fetch is still outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inflight > 0
}

// CurrentPage returns the page on screen.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.page
}

// TotalPages returns the page count of the last successful fetch.
func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalPages
}

// Books returns the books on screen.
func (s *Session) Books() []catalog.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]catalog.Book(nil), s.result.Books...)
}

// Term returns the active search term.
func (s *Session) Term() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.term
}

// Genre returns the active genre filter.
func (s *Session) Genre() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.genre
}

// Err returns the error of the latest fetch, or nil if it succeeded.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

func (s *Session) beginLocked(page int) Ticket {
	s.seq++
	s.inflight++
	return Ticket{
		Seq:   s.seq,
		Query: catalog.Query{Page: page, Term: s.term, Genre: s.genre}.Normalize(),
	}
}

func (s *Session) savePrefsLocked(ctx context.Context) {
	if err := s.prefs.Save(ctx, s.term, s.genre); err != nil {
		slog.Error("Failed to save preferences", "error", err)
	}
}
