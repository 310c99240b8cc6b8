// Package catalog is a client for the Gutendex book catalog API.
package catalog

import (
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/shelf/internal/config"
	"github.com/lepinkainen/shelf/internal/ratelimit"
	"golang.org/x/sync/singleflight"
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a Gutendex API client.
type Client struct {
	baseURL     string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
	useCache    bool
	inflight    singleflight.Group
}

// NewClient creates a new catalog client. By default it talks to the
// public Gutendex instance and does not use the response cache.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:     config.DefaultCatalogURL,
		httpClient:  &http.Client{Timeout: config.DefaultCatalogTimeout},
		rateLimiter: ratelimit.New("gutendex", config.DefaultCatalogRate),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithTimeout replaces the HTTP client with one using the given timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithBaseURL sets a custom base URL, e.g. a self-hosted Gutendex.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter sets the limiter applied before every request. nil disables limiting.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}

// WithCache routes responses through the SQLite response cache.
func WithCache(enabled bool) Option {
	return func(client *Client) {
		client.useCache = enabled
	}
}

// BaseURL returns the catalog base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
