package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError is returned when a catalog request fails, either on the wire
// (transport failure, non-2xx status) or while decoding the response body.
type FetchError struct {
	Op         string // "search" or "book"
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("catalog %s: unexpected status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("catalog %s: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("catalog %s failed", e.Op)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the catalog answered 404, which Gutendex also
// uses for out-of-range page numbers.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// RateLimited reports whether the catalog answered 429.
func (e *FetchError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// NewFetchError wraps err as a FetchError for the given operation and URL.
func NewFetchError(op, url string, statusCode int, err error) *FetchError {
	return &FetchError{Op: op, URL: url, StatusCode: statusCode, Err: err}
}

// IsFetchError reports whether err is a FetchError (even when wrapped).
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// AsFetchError returns the FetchError in err's chain, if any.
func AsFetchError(err error) (*FetchError, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr, true
	}
	return nil, false
}
