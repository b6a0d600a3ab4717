package letterfreq

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// AtomicCounter launches one goroutine per document against an AtomicTally.
// No lock is taken anywhere; the driver joins every task before reading.
type AtomicCounter struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewAtomicCounter(f Fetcher, opts ...Option) *AtomicCounter {
	o := newOptions(opts)
	return &AtomicCounter{
		fetcher: f,
		logger:  o.logger.With("strategy", Atomic),
	}
}

func (c *AtomicCounter) Count(ctx context.Context, batch Batch) (Result, error) {
	tally := NewAtomicTally()
	var failed atomic.Int64
	var wg sync.WaitGroup
	for _, id := range batch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := fetchDocument(ctx, c.fetcher, id)
			if err != nil {
				reportFailure(c.logger, id, err)
				failed.Add(1)
				return
			}
			Scan(data, tally.Inc)
			c.logger.Debug("Document counted", "document", id, "bytes", len(data))
		}()
	}
	c.logger.Debug("Dispatched tasks", "count", len(batch))

	// Wait is the happens-before edge between the last Inc and Snapshot.
	wg.Wait()
	return Result{
		Counts:    tally.Snapshot(),
		Documents: len(batch),
		Failed:    int(failed.Load()),
	}, nil
}
