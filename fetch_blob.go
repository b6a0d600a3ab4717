package letterfreq

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// BlobFetcher reads documents from a single gocloud.dev bucket.
type BlobFetcher struct {
	bucket *blob.Bucket
}

// NewBlobFetcher wraps an opened bucket. The caller keeps ownership of it.
func NewBlobFetcher(bucket *blob.Bucket) *BlobFetcher {
	return &BlobFetcher{bucket: bucket}
}

// Fetch reads the object named by id. When id is a URL only its last path
// segment is used as the key.
func (b *BlobFetcher) Fetch(ctx context.Context, id DocumentID) ([]byte, error) {
	key := string(id)
	if u, err := url.Parse(key); err == nil && u.Scheme != "" {
		key = path.Base(u.Path)
	}
	data, err := b.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			err = fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, &FetchError{ID: id, Err: err}
	}
	return data, nil
}

// SchemeFetcher routes http and https ids to an HTTP fetcher and every
// other scheme to a gocloud.dev bucket opened on first use. A document
// "file:///srv/docs/a.txt" is read as key "a.txt" from bucket "file:///srv/docs".
type SchemeFetcher struct {
	http Fetcher

	mu      sync.Mutex
	buckets map[string]*blob.Bucket
	owned   map[string]bool
}

// NewSchemeFetcher creates a SchemeFetcher using httpFetcher for web ids.
// A nil httpFetcher makes web ids fail with ErrNoBackend.
func NewSchemeFetcher(httpFetcher Fetcher) *SchemeFetcher {
	return &SchemeFetcher{
		http:    httpFetcher,
		buckets: make(map[string]*blob.Bucket),
		owned:   make(map[string]bool),
	}
}

// Mount serves ids under bucketURL from an already opened bucket. Mounted
// buckets are not closed by Close.
func (s *SchemeFetcher) Mount(bucketURL string, bucket *blob.Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucketURL = strings.TrimSuffix(bucketURL, "/")
	s.buckets[bucketURL] = bucket
	delete(s.owned, bucketURL)
}

func (s *SchemeFetcher) Fetch(ctx context.Context, id DocumentID) ([]byte, error) {
	u, err := url.Parse(string(id))
	if err != nil {
		return nil, &FetchError{ID: id, Err: err}
	}
	switch u.Scheme {
	case "http", "https":
		if s.http == nil {
			return nil, &FetchError{ID: id, Err: fmt.Errorf("%w: %s", ErrNoBackend, u.Scheme)}
		}
		return s.http.Fetch(ctx, id)
	case "":
		return nil, &FetchError{ID: id, Err: fmt.Errorf("%w: missing scheme", ErrNoBackend)}
	}

	bucketURL := u.Scheme + "://" + u.Host + path.Dir(u.Path)
	bucketURL = strings.TrimSuffix(bucketURL, "/")
	bucket, err := s.bucket(ctx, bucketURL)
	if err != nil {
		return nil, &FetchError{ID: id, Err: err}
	}
	return NewBlobFetcher(bucket).Fetch(ctx, id)
}

func (s *SchemeFetcher) bucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[bucketURL]; ok {
		return b, nil
	}
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketURL, err)
	}
	s.buckets[bucketURL] = b
	s.owned[bucketURL] = true
	return b, nil
}

// Close closes every bucket the fetcher opened itself.
func (s *SchemeFetcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for u := range s.owned {
		if err := s.buckets[u].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bucket %s: %w", u, err))
		}
		delete(s.buckets, u)
	}
	s.owned = make(map[string]bool)
	return errors.Join(errs...)
}
