package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lepinkainen/shelf/internal/tui"
	"github.com/lepinkainen/shelf/internal/view"
)

var runBrowser = tui.Run

// optionalString records whether a flag was given at all, so an explicit
// empty value can clear a saved preference.
type optionalString struct {
	Value string
	Set   bool
}

func (o *optionalString) Decode(ctx *kong.DecodeContext) error {
	if err := ctx.Scan.PopValueInto("value", &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

func (o optionalString) or(fallback string) string {
	if o.Set {
		return o.Value
	}
	return fallback
}

// BrowseCmd runs the interactive browser
type BrowseCmd struct {
	LogFile string `help:"File that receives log output while the browser is open" default:"shelf.log"`
}

func (b *BrowseCmd) Run() error {
	logFile, err := os.OpenFile(b.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	setLogOutput(logFile)
	defer initLogging()

	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return runBrowser(ctx, a.session)
}

// SearchCmd prints one page of results
type SearchCmd struct {
	Term  optionalString `help:"Search term; saved as the new preference (default: saved term)"`
	Genre optionalString `help:"Genre/topic filter; saved as the new preference (default: saved genre)"`
	Page  int            `short:"p" help:"Page number" default:"1"`
}

func (s *SearchCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	saved, err := a.prefs.Load(ctx)
	if err != nil {
		slog.Error("Failed to load preferences", "error", err)
	}

	term := s.Term.or(saved.Term)
	genre := s.Genre.or(saved.Genre)

	if _, err := a.session.Fetch(ctx, a.session.Open(ctx, term, genre, s.Page)); err != nil {
		return err
	}

	model := a.session.View()
	_, _ = fmt.Fprintf(stdout, "%d books match (page %d of %d)\n\n", model.Count, a.session.CurrentPage(), a.session.TotalPages())
	return view.RenderText(stdout, model)
}

// ShowCmd prints details for a single book
type ShowCmd struct {
	ID int `arg:"" help:"Catalog ID of the book"`
}

func (s *ShowCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	book, err := a.catalog.Book(ctx, s.ID)
	if err != nil {
		return err
	}
	return view.RenderBook(stdout, book, a.wishlist.IsLiked(book.ID))
}

// LikeCmd toggles wishlist membership
type LikeCmd struct {
	ID int `arg:"" help:"Catalog ID of the book"`
}

func (l *LikeCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	liked, err := a.wishlist.Toggle(ctx, l.ID)
	if err != nil {
		return err
	}

	if liked {
		_, _ = fmt.Fprintf(stdout, "❤️ Added %d to the wishlist\n", l.ID)
	} else {
		_, _ = fmt.Fprintf(stdout, "♡ Removed %d from the wishlist\n", l.ID)
	}
	return nil
}

// GenresCmd lists the genre shortcuts offered by the browser
type GenresCmd struct{}

func (g *GenresCmd) Run() error {
	for _, genre := range tui.Genres {
		topic := genre.Topic
		if topic == "" {
			topic = "(no filter)"
		}
		_, _ = fmt.Fprintf(stdout, "%-18s %s\n", genre.Name, topic)
	}
	return nil
}
