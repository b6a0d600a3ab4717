package letterfreq

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 64
	MaxIdleConnsPerHost int

	// Timeout for a whole request including reading the body.
	// Default: 30s
	Timeout time.Duration
}

// DefaultHTTPOptions returns options suited to one batch of concurrent fetches.
func DefaultHTTPOptions() HTTPOptions {
	return HTTPOptions{
		MaxIdleConnsPerHost: 64,
		Timeout:             30 * time.Second,
	}
}

// HTTPFetcher fetches documents with a single GET each.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with a pooled transport.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
	}
}

// Fetch performs a GET and returns the whole body.
func (h *HTTPFetcher) Fetch(ctx context.Context, id DocumentID) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(id), nil)
	if err != nil {
		return nil, &FetchError{ID: id, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &FetchError{ID: id, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatusCode(resp.StatusCode); err != nil {
		return nil, &FetchError{ID: id, Err: err}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{ID: id, Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return fmt.Errorf("%w: %d", ErrServerError, code)
	default:
		return fmt.Errorf("%w: %d", ErrBadStatus, code)
	}
}
