package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lepinkainen/shelf/internal/cache"
	shelferrors "github.com/lepinkainen/shelf/internal/errors"
	"github.com/lepinkainen/shelf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageJSON = `{
  "count": 70,
  "next": "https://gutendex.com/books/?page=3",
  "previous": "https://gutendex.com/books/?page=1",
  "results": [
    {
      "id": 84,
      "title": "Frankenstein; Or, The Modern Prometheus",
      "authors": [{"name": "Shelley, Mary Wollstonecraft", "birth_year": 1797, "death_year": 1851}],
      "subjects": ["Science fiction", "Horror tales"],
      "bookshelves": ["Browsing: Science-Fiction & Fantasy", "Gothic Fiction"],
      "languages": ["en"],
      "formats": {"image/jpeg": "https://www.gutenberg.org/cache/epub/84/pg84.cover.medium.jpg", "text/html": "https://www.gutenberg.org/ebooks/84.html.images"},
      "download_count": 104413
    },
    {
      "id": 1342,
      "title": "Pride and Prejudice",
      "authors": [{"name": "Austen, Jane", "birth_year": 1775, "death_year": 1817}, {"name": "Editor, Some", "birth_year": null, "death_year": null}],
      "subjects": [],
      "bookshelves": [],
      "languages": ["en"],
      "formats": {},
      "download_count": 5
    }
  ]
}`

const bookJSON = `{"id": 11, "title": "Alice's Adventures in Wonderland", "authors": [{"name": "Carroll, Lewis"}], "bookshelves": ["Children's Literature"], "formats": {"image/jpeg": "http://covers/11.jpg"}}`

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{WithBaseURL(server.URL + "/"), WithHTTPClient(server.Client()), WithRateLimiter(nil)}, opts...)
	return NewClient(opts...)
}

func TestSearchSendsQueryAndDecodes(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(pageJSON))
	}))

	result, err := client.Search(context.Background(), Query{Page: 2, Term: "shelley frank", Genre: "horror"})
	require.NoError(t, err)

	assert.Equal(t, "/books/", gotPath)
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"shelley frank"}, gotQuery["search"])
	assert.Equal(t, []string{"horror"}, gotQuery["topic"])

	assert.Equal(t, 70, result.Count)
	require.Len(t, result.Books, 2)

	frank := result.Books[0]
	assert.Equal(t, 84, frank.ID)
	assert.Equal(t, []string{"Shelley, Mary Wollstonecraft"}, frank.Authors)
	assert.Equal(t, []string{"Browsing: Science-Fiction & Fantasy", "Gothic Fiction"}, frank.Genres)
	assert.Equal(t, []string{"Science-Fiction & Fantasy", "Gothic Fiction"}, frank.CleanGenres())
	assert.Equal(t, "https://www.gutenberg.org/cache/epub/84/pg84.cover.medium.jpg", frank.CoverURL)
	assert.Equal(t, 104413, frank.DownloadCount)
	assert.Equal(t, "book.html?id=84", frank.DetailLink())

	pride := result.Books[1]
	assert.Equal(t, []string{"Austen, Jane", "Editor, Some"}, pride.Authors)
	assert.Empty(t, pride.CoverURL)
	assert.Equal(t, []string{}, pride.Genres)
}

func TestSearchSendsEmptyFilters(t *testing.T) {
	var rawQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	}))

	result, err := client.Search(context.Background(), Query{})
	require.NoError(t, err)

	assert.Equal(t, "page=1&search=&topic=", rawQuery)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Books)
}

func TestSearchStatusErrorIsFetchError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid page."}`, http.StatusNotFound)
	}))

	_, err := client.Search(context.Background(), Query{Page: 999})
	require.Error(t, err)

	fetchErr, ok := shelferrors.AsFetchError(err)
	require.True(t, ok, "expected FetchError, got %T", err)
	assert.Equal(t, "search", fetchErr.Op)
	assert.True(t, fetchErr.NotFound())
	assert.Contains(t, err.Error(), "Invalid page.")
}

func TestSearchDecodeErrorIsFetchError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))

	_, err := client.Search(context.Background(), Query{Page: 1})
	require.Error(t, err)
	assert.True(t, shelferrors.IsFetchError(err))
	assert.Contains(t, err.Error(), "decode response")
}

func TestSearchTransportErrorIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	client := NewClient(WithBaseURL(base), WithRateLimiter(nil))
	_, err := client.Search(context.Background(), Query{Page: 1})
	require.Error(t, err)

	fetchErr, ok := shelferrors.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, 0, fetchErr.StatusCode)
}

func TestSearchCancelledContext(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pageJSON))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, Query{Page: 1})
	require.Error(t, err)
	assert.True(t, shelferrors.IsFetchError(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBookFetchesSingleRecord(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books/11", r.URL.Path)
		_, _ = w.Write([]byte(bookJSON))
	}))

	book, err := client.Book(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Alice's Adventures in Wonderland", book.Title)
	assert.Equal(t, []string{"Carroll, Lewis"}, book.Authors)
	assert.Equal(t, "http://covers/11.jpg", book.CoverURL)
}

func TestSearchURL(t *testing.T) {
	client := NewClient(WithBaseURL("https://gutendex.example/"))

	assert.Equal(t, "https://gutendex.example", client.BaseURL())
	assert.Equal(t, "https://gutendex.example/books/?page=1&search=a+b&topic=sci-fi", client.SearchURL(Query{Page: -4, Term: "a b", Genre: "sci-fi"}))
	assert.Equal(t, "https://gutendex.example/books/7", client.BookURL(7))
}

func TestQueryCacheKey(t *testing.T) {
	assert.Equal(t, Query{Page: 1}.CacheKey(), Query{Page: 0}.CacheKey())
	assert.NotEqual(t, Query{Page: 1, Term: "a"}.CacheKey(), Query{Page: 1, Genre: "a"}.CacheKey())
	assert.True(t, strings.HasPrefix(Query{Page: 3}.CacheKey(), "3"))
}

func TestSearchUsesResponseCache(t *testing.T) {
	env := testutil.NewTestEnv(t)
	testutil.SetTestConfig(t, testutil.WithCacheDB(env.Path("cache.db")))
	require.NoError(t, cache.ResetGlobal())
	t.Cleanup(func() { _ = cache.ResetGlobal() })

	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(pageJSON))
	}), WithCache(true))

	first, err := client.Search(context.Background(), Query{Page: 2, Term: "x"})
	require.NoError(t, err)
	second, err := client.Search(context.Background(), Query{Page: 2, Term: "x"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first.Count, second.Count)
	require.Len(t, second.Books, 2)
	assert.Equal(t, first.Books[0].Title, second.Books[0].Title)
	assert.Equal(t, first.Books[0].CoverURL, second.Books[0].CoverURL)

	_, err = client.Search(context.Background(), Query{Page: 3, Term: "x"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCacheDisabledGloballyBypassesCache(t *testing.T) {
	testutil.SetTestConfig(t)

	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(bookJSON))
	}), WithCache(true))

	for range 2 {
		_, err := client.Book(context.Background(), 11)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load())
}
