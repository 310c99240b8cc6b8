package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/lepinkainen/shelf/internal/cache"
)

// SearchURL builds the Gutendex URL for q. Empty term and genre are still
// sent, as empty parameters.
func (c *Client) SearchURL(q Query) string {
	q = q.Normalize()

	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("search", q.Term)
	params.Set("topic", q.Genre)

	return fmt.Sprintf("%s/books/?%s", c.baseURL, params.Encode())
}

// BookURL builds the Gutendex URL for a single book.
func (c *Client) BookURL(id int) string {
	return fmt.Sprintf("%s/books/%d", c.baseURL, id)
}

// Search fetches one page of books matching q.
func (c *Client) Search(ctx context.Context, q Query) (PageResult, error) {
	q = q.Normalize()
	endpoint := c.SearchURL(q)

	fetch := func() (PageResult, error) {
		return c.fetchPage(ctx, endpoint)
	}
	if !c.useCache {
		return fetch()
	}

	result, _, err := cache.GetOrFetch(cache.SearchTable, c.baseURL+"|"+q.CacheKey(), fetch)
	return result, err
}

// Book fetches a single book by its catalog ID.
func (c *Client) Book(ctx context.Context, id int) (Book, error) {
	endpoint := c.BookURL(id)

	fetch := func() (Book, error) {
		return c.fetchBook(ctx, endpoint)
	}
	if !c.useCache {
		return fetch()
	}

	book, _, err := cache.GetOrFetch(cache.BookTable, c.baseURL+"|"+strconv.Itoa(id), fetch)
	return book, err
}

// fetchPage collapses concurrent requests for the same URL into one call.
func (c *Client) fetchPage(ctx context.Context, endpoint string) (PageResult, error) {
	v, err, _ := c.inflight.Do(endpoint, func() (any, error) {
		var page wirePage
		if err := c.getJSON(ctx, "search", endpoint, &page); err != nil {
			return PageResult{}, err
		}

		books := make([]Book, 0, len(page.Results))
		for _, wb := range page.Results {
			books = append(books, wb.toBook())
		}
		return PageResult{Books: books, Count: page.Count}, nil
	})
	if err != nil {
		return PageResult{}, err
	}
	return v.(PageResult), nil
}

func (c *Client) fetchBook(ctx context.Context, endpoint string) (Book, error) {
	v, err, _ := c.inflight.Do(endpoint, func() (any, error) {
		var wb wireBook
		if err := c.getJSON(ctx, "book", endpoint, &wb); err != nil {
			return Book{}, err
		}
		return wb.toBook(), nil
	})
	if err != nil {
		return Book{}, err
	}
	return v.(Book), nil
}
