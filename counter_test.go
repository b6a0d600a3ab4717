package letterfreq

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategiesAgree(t *testing.T) {
	batch, docs := testBatch(50, mixedText)
	var want Counts
	for _, text := range docs {
		want = want.Add(Count([]byte(text)))
	}

	for s, counter := range testCounters(docFetcher(docs)) {
		t.Run(string(s), func(t *testing.T) {
			res := countWithTimeout(t, counter, batch)
			assert.Equal(t, want, res.Counts)
			assert.Equal(t, 50, res.Documents)
			assert.Equal(t, 0, res.Failed)
		})
	}
}

func TestEmptyBatch(t *testing.T) {
	for s, counter := range testCounters(docFetcher(nil)) {
		t.Run(string(s), func(t *testing.T) {
			start := time.Now()
			res := countWithTimeout(t, counter, Batch{})
			assert.Equal(t, Counts{}, res.Counts)
			assert.Equal(t, 0, res.Documents)
			assert.Less(t, time.Since(start), time.Second)
		})
	}
}

func TestLockedEmptyBatchDoesNotPoll(t *testing.T) {
	counter := NewLockedCounter(docFetcher(nil), WithLogger(quietLogger), WithPollInterval(time.Hour))
	res := countWithTimeout(t, counter, nil)
	assert.Equal(t, Counts{}, res.Counts)
}

func TestFailedDocumentStillCompletes(t *testing.T) {
	batch := Batch{"mem://docs/1", "mem://docs/2", "mem://docs/3"}
	docs := map[DocumentID]string{
		"mem://docs/1": "aaa",
		"mem://docs/2": "zzzzzzzz",
		"mem://docs/3": "Bb",
	}

	for s, counter := range testCounters(docFetcher(docs, "mem://docs/2")) {
		t.Run(string(s), func(t *testing.T) {
			res := countWithTimeout(t, counter, batch)
			assert.Equal(t, int64(3), res.Counts.Get('a'))
			assert.Equal(t, int64(2), res.Counts.Get('b'))
			assert.Equal(t, int64(0), res.Counts.Get('z'), "Failed document must contribute nothing")
			assert.Equal(t, 1, res.Failed)
			assert.Equal(t, 3, res.Documents)
		})
	}
}

func TestAllDocumentsFail(t *testing.T) {
	batch, _ := testBatch(10, mixedText)
	for s, counter := range testCounters(docFetcher(nil)) {
		t.Run(string(s), func(t *testing.T) {
			res := countWithTimeout(t, counter, batch)
			assert.Equal(t, Counts{}, res.Counts)
			assert.Equal(t, 10, res.Failed)
		})
	}
}

func TestSplitBatchIsAdditive(t *testing.T) {
	batch, docs := testBatch(20, mixedText)
	for s, counter := range testCounters(docFetcher(docs)) {
		t.Run(string(s), func(t *testing.T) {
			whole := countWithTimeout(t, counter, batch)
			left := countWithTimeout(t, counter, batch[:7])
			right := countWithTimeout(t, counter, batch[7:])
			assert.Equal(t, whole.Counts, left.Counts.Add(right.Counts))
		})
	}
}

// n documents each containing m copies of 'e' must give exactly n*m.
func TestConcurrentCountersLoseNoUpdates(t *testing.T) {
	const n, m = 200, 20000
	batch, docs := testBatch(n, func(int) string { return strings.Repeat("e", m) })
	for _, s := range []Strategy{Locked, Atomic, Pooled} {
		counter := testCounters(docFetcher(docs))[s]
		t.Run(string(s), func(t *testing.T) {
			res := countWithTimeout(t, counter, batch)
			assert.Equal(t, int64(n*m), res.Counts.Get('e'))
			assert.Equal(t, int64(n*m), res.Counts.Total())
		})
	}
}

// The locked and atomic counters launch every task up front, so a fetcher
// that blocks until all documents are in flight must not deadlock them.
func TestOneTaskPerDocument(t *testing.T) {
	const n = 30
	batch, docs := testBatch(n, mixedText)
	for _, s := range []Strategy{Locked, Atomic} {
		t.Run(string(s), func(t *testing.T) {
			var inFlight atomic.Int64
			release := make(chan struct{})
			f := FetcherFunc(func(ctx context.Context, id DocumentID) ([]byte, error) {
				if inFlight.Add(1) == n {
					close(release)
				}
				<-release
				return []byte(docs[id]), nil
			})
			counter, err := NewCounter(s, f, WithLogger(quietLogger), WithPollInterval(2*time.Millisecond))
			require.NoError(t, err)
			res := countWithTimeout(t, counter, batch)
			assert.Equal(t, n, res.Documents)
			assert.Equal(t, int64(n), inFlight.Load())
		})
	}
}

func TestPooledRespectsWorkerLimit(t *testing.T) {
	const workers = 3
	batch, docs := testBatch(40, mixedText)
	var active, peak atomic.Int64
	f := FetcherFunc(func(ctx context.Context, id DocumentID) ([]byte, error) {
		cur := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		return []byte(docs[id]), nil
	})
	counter := NewPooledCounter(f, WithLogger(quietLogger), WithWorkers(workers))
	res := countWithTimeout(t, counter, batch)
	assert.Equal(t, 40, res.Documents)
	assert.LessOrEqual(t, peak.Load(), int64(workers))
}

func TestLockedWaitsForSlowTasks(t *testing.T) {
	batch := Batch{"mem://docs/slow", "mem://docs/fast"}
	f := FetcherFunc(func(ctx context.Context, id DocumentID) ([]byte, error) {
		if id == "mem://docs/slow" {
			time.Sleep(50 * time.Millisecond)
			return []byte("slow"), nil
		}
		return []byte("fast"), nil
	})
	counter := NewLockedCounter(f, WithLogger(quietLogger), WithPollInterval(5*time.Millisecond))
	res := countWithTimeout(t, counter, batch)
	assert.Equal(t, Count([]byte("slowfast")), res.Counts)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(strings.ToUpper(string(s)))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("spinlock")
	assert.Error(t, err)

	_, err = NewCounter("spinlock", docFetcher(nil))
	assert.Error(t, err)
}
