package cmd

import (
	"context"
	"fmt"

	"github.com/lepinkainen/shelf/internal/cover"
)

// CoverCmd downloads and scales a book cover
type CoverCmd struct {
	ID        int    `arg:"" help:"Catalog ID of the book"`
	Dir       string `short:"d" help:"Directory to save the cover in" default:"covers"`
	MaxWidth  int    `help:"Scale covers wider than this many pixels" default:"400"`
	Overwrite bool   `help:"Download again even if the file exists"`
}

func (c *CoverCmd) Run() error {
	ctx := context.Background()
	book, err := newCatalogClient().Book(ctx, c.ID)
	if err != nil {
		return err
	}

	result, err := cover.NewDownloader(nil).Download(ctx, cover.Options{
		URL:       book.CoverURL,
		Dir:       c.Dir,
		Filename:  cover.Filename(book.ID, book.Title),
		MaxWidth:  c.MaxWidth,
		Overwrite: c.Overwrite,
	})
	if err != nil {
		return fmt.Errorf("cover for %d: %w", book.ID, err)
	}

	status := "Saved"
	if !result.Downloaded {
		status = "Already present"
	}
	_, _ = fmt.Fprintf(stdout, "%s: %s (%dx%d)\n", status, result.Path, result.Width, result.Height)
	return nil
}
