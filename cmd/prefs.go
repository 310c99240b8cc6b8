package cmd

import (
	"context"
	"fmt"
)

// PrefsCmd groups the preference subcommands
type PrefsCmd struct {
	Show  PrefsShowCmd  `cmd:"" default:"1" help:"Print the saved search term and genre"`
	Reset PrefsResetCmd `cmd:"" help:"Forget the saved search term and genre"`
}

// PrefsShowCmd prints the saved preferences
type PrefsShowCmd struct{}

func (p *PrefsShowCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	saved, err := a.prefs.Load(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Search term: %q\nGenre:       %q\nWishlist:    %d books\n", saved.Term, saved.Genre, a.wishlist.Len())
	return nil
}

// PrefsResetCmd clears the saved preferences. The wishlist is kept.
type PrefsResetCmd struct{}

func (p *PrefsResetCmd) Run() error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.prefs.Reset(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout, "Preferences cleared")
	return nil
}
