package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// browsingPrefix matches the "Browsing: " label Gutendex puts in front of
// its curated bookshelves.
var browsingPrefix = regexp.MustCompile(`Browsing:\s*`)

// Book is a catalog record as shown to the user.
type Book struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Authors       []string          `json:"authors"`
	Genres        []string          `json:"genres"`
	CoverURL      string            `json:"cover_url,omitempty"`
	Subjects      []string          `json:"subjects,omitempty"`
	Languages     []string          `json:"languages,omitempty"`
	DownloadCount int               `json:"download_count,omitempty"`
	Formats       map[string]string `json:"formats,omitempty"`
}

// CleanGenres returns the genre tags with the "Browsing:" prefix removed.
func (b Book) CleanGenres() []string {
	out := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		out = append(out, browsingPrefix.ReplaceAllString(g, ""))
	}
	return out
}

// DetailLink is the relative link to the book's detail page.
func (b Book) DetailLink() string {
	return "book.html?id=" + strconv.Itoa(b.ID)
}

// PageResult is one page of search results plus the total match count.
type PageResult struct {
	Books []Book `json:"books"`
	Count int    `json:"count"`
}

// Query selects a result page. Empty Term and Genre match everything.
type Query struct {
	Page  int    `json:"page"`
	Term  string `json:"term"`
	Genre string `json:"genre"`
}

// Normalize clamps Page to at least 1.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// CacheKey identifies the query in the response cache.
func (q Query) CacheKey() string {
	q = q.Normalize()
	return strings.Join([]string{strconv.Itoa(q.Page), q.Term, q.Genre}, "\x1f")
}

// wireAuthor, wireBook and wirePage mirror the Gutendex JSON.
type wireAuthor struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
}

type wireBook struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Authors       []wireAuthor      `json:"authors"`
	Subjects      []string          `json:"subjects"`
	Bookshelves   []string          `json:"bookshelves"`
	Languages     []string          `json:"languages"`
	Formats       map[string]string `json:"formats"`
	DownloadCount int               `json:"download_count"`
}

type wirePage struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []wireBook `json:"results"`
}

func (w wireBook) toBook() Book {
	authors := make([]string, 0, len(w.Authors))
	for _, a := range w.Authors {
		authors = append(authors, a.Name)
	}
	genres := w.Bookshelves
	if genres == nil {
		genres = []string{}
	}
	return Book{
		ID:            w.ID,
		Title:         w.Title,
		Authors:       authors,
		Genres:        genres,
		CoverURL:      w.Formats["image/jpeg"],
		Subjects:      w.Subjects,
		Languages:     w.Languages,
		DownloadCount: w.DownloadCount,
		Formats:       w.Formats,
	}
}
