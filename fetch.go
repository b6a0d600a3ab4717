package letterfreq

import (
	"context"
	"errors"
	"fmt"
)

// Common fetch failure causes.
var (
	ErrNotFound     = errors.New("fetch: document not found")
	ErrForbidden    = errors.New("fetch: access forbidden")
	ErrUnauthorized = errors.New("fetch: unauthorized")
	ErrServerError  = errors.New("fetch: server error")
	ErrBadStatus    = errors.New("fetch: unexpected status")
	ErrNoBackend    = errors.New("fetch: no backend for scheme")
)

// Fetcher retrieves the raw bytes of one document. Implementations perform
// no internal concurrency and no retries. On error no bytes are returned.
type Fetcher interface {
	Fetch(ctx context.Context, id DocumentID) ([]byte, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, id DocumentID) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, id DocumentID) ([]byte, error) {
	return f(ctx, id)
}

// FetchError reports that a single document could not be retrieved.
// It is never fatal to a batch.
type FetchError struct {
	ID  DocumentID
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// fetchDocument calls f and normalizes every failure to a *FetchError.
func fetchDocument(ctx context.Context, f Fetcher, id DocumentID) ([]byte, error) {
	data, err := f.Fetch(ctx, id)
	if err != nil {
		var ferr *FetchError
		if errors.As(err, &ferr) {
			return nil, err
		}
		return nil, &FetchError{ID: id, Err: err}
	}
	return data, nil
}
