package letterfreq

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

const testTimeout = 5 * time.Second

// withTimeout wraps a channel receive with a timeout
func withTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case val := <-ch:
		return val
	case <-time.After(testTimeout):
		t.Fatal("Test timed out waiting for channel receive")
		var zero T
		return zero
	}
}

// countWithTimeout runs counter.Count and fails the test if it hangs.
func countWithTimeout(t *testing.T, counter Counter, batch Batch) Result {
	t.Helper()
	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := counter.Count(context.Background(), batch)
		done <- outcome{res, err}
	}()
	out := withTimeout(t, done)
	if out.err != nil {
		t.Fatalf("Count returned error: %v", out.err)
	}
	return out.res
}

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// docFetcher serves documents from memory. Ids listed in failing return an error.
func docFetcher(docs map[DocumentID]string, failing ...DocumentID) Fetcher {
	fail := make(map[DocumentID]bool, len(failing))
	for _, id := range failing {
		fail[id] = true
	}
	return FetcherFunc(func(ctx context.Context, id DocumentID) ([]byte, error) {
		if fail[id] {
			return nil, fmt.Errorf("connection reset by peer")
		}
		text, ok := docs[id]
		if !ok {
			return nil, ErrNotFound
		}
		return []byte(text), nil
	})
}

// testBatch returns ids doc-0..doc-(n-1) and a map of their contents.
func testBatch(n int, content func(i int) string) (Batch, map[DocumentID]string) {
	batch := make(Batch, 0, n)
	docs := make(map[DocumentID]string, n)
	for i := 0; i < n; i++ {
		id := DocumentID(fmt.Sprintf("mem://docs/doc-%d", i))
		batch = append(batch, id)
		docs[id] = content(i)
	}
	return batch, docs
}

func mixedText(i int) string {
	return strings.Repeat(fmt.Sprintf("The Quick brown fox #%d jumps over the LAZY dog! ", i), i%7+1) +
		"Ünïcödé ßtraße ΑΒΓ 12345 "
}

// testCounters builds every strategy with fast polling and a quiet logger.
func testCounters(f Fetcher) map[Strategy]Counter {
	opts := []Option{WithLogger(quietLogger), WithPollInterval(2 * time.Millisecond), WithWorkers(4)}
	out := make(map[Strategy]Counter, len(Strategies))
	for _, s := range Strategies {
		c, err := NewCounter(s, f, opts...)
		if err != nil {
			panic(err)
		}
		out[s] = c
	}
	return out
}
