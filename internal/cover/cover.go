// Package cover downloads book cover images and scales them down for local use.
package cover

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/lepinkainen/shelf/internal/fileutil"
)

// DefaultMaxWidth is the width covers are scaled down to when no limit is given.
const DefaultMaxWidth = 400

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options holds options for downloading a cover image.
type Options struct {
	// URL is the source URL of the cover image
	URL string
	// Dir is the directory where the cover will be saved
	Dir string
	// Filename is the name of the cover file, see Filename
	Filename string
	// MaxWidth scales wider images down, keeping the aspect ratio
	MaxWidth int
	// Overwrite forces re-downloading even if the file exists
	Overwrite bool
}

// Result describes a saved cover.
type Result struct {
	Downloaded bool
	Path       string
	Width      int
	Height     int
}

// ErrNoCover is returned when a book has no cover image.
var ErrNoCover = fmt.Errorf("book has no cover image")

// Filename creates a standard cover filename: "Title (id) - cover.jpg".
func Filename(id int, title string) string {
	return fmt.Sprintf("%s (%d) - cover.jpg", fileutil.SanitizeFilename(title), id)
}

// Downloader fetches and resizes cover images.
type Downloader struct {
	httpClient HTTPDoer
}

// NewDownloader creates a Downloader. A nil client gets a 30 second timeout.
func NewDownloader(client HTTPDoer) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Downloader{httpClient: client}
}

// Download saves the image at opts.URL under opts.Dir as JPEG. An existing
// file is kept unless opts.Overwrite is set.
func (d *Downloader) Download(ctx context.Context, opts Options) (*Result, error) {
	if opts.URL == "" {
		return nil, ErrNoCover
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}

	savePath := filepath.Join(opts.Dir, opts.Filename)
	result := &Result{Path: savePath}

	if fileutil.FileExists(savePath) && !opts.Overwrite {
		slog.Debug("Cover already exists, skipping download", "path", savePath)
		if cfg, err := decodeConfig(savePath); err == nil {
			result.Width, result.Height = cfg.Width, cfg.Height
		}
		return result, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading cover from %s", resp.StatusCode, opts.URL)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}

	if img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cover directory: %w", err)
	}
	if err := imaging.Save(img, savePath, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}

	slog.Info("Downloaded cover", "path", savePath)
	result.Downloaded = true
	result.Width = img.Bounds().Dx()
	result.Height = img.Bounds().Dy()
	return result, nil
}

func decodeConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}
