package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	shelferrors "github.com/lepinkainen/shelf/internal/errors"
)

// getJSON performs a single GET and decodes the body into target. Every
// failure is reported as a *errors.FetchError; there are no retries.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, target any) error {
	requestID := uuid.NewString()
	logger := slog.With("request_id", requestID, "op", op)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return shelferrors.NewFetchError(op, endpoint, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return shelferrors.NewFetchError(op, endpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	logger.Debug("Catalog request", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shelferrors.NewFetchError(op, endpoint, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug("Catalog response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var cause error
		if detail := strings.TrimSpace(string(body)); detail != "" {
			cause = errors.New(detail)
		}
		return shelferrors.NewFetchError(op, endpoint, resp.StatusCode, cause)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return shelferrors.NewFetchError(op, endpoint, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
