package letterfreq

import (
	"context"
	"log/slog"
	"time"
)

// LockedCounter launches one goroutine per document. All of them share one
// LockedTally, so every character of every document passes through the same
// mutex. The driver learns about completion by polling the finished count
// rather than joining the goroutines.
type LockedCounter struct {
	fetcher      Fetcher
	logger       *slog.Logger
	pollInterval time.Duration
}

func NewLockedCounter(f Fetcher, opts ...Option) *LockedCounter {
	o := newOptions(opts)
	return &LockedCounter{
		fetcher:      f,
		logger:       o.logger.With("strategy", Locked),
		pollInterval: o.pollInterval,
	}
}

func (c *LockedCounter) Count(ctx context.Context, batch Batch) (Result, error) {
	tally := NewLockedTally()
	for _, id := range batch {
		go c.countDocument(ctx, id, tally)
	}
	c.logger.Debug("Dispatched tasks", "count", len(batch))

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		finished, failed := tally.Finished()
		if finished >= len(batch) {
			return Result{
				Counts:    tally.Snapshot(),
				Documents: len(batch),
				Failed:    failed,
			}, nil
		}
		<-ticker.C
	}
}

func (c *LockedCounter) countDocument(ctx context.Context, id DocumentID, tally *LockedTally) {
	data, err := fetchDocument(ctx, c.fetcher, id)
	if err != nil {
		reportFailure(c.logger, id, err)
		tally.Finish(true)
		return
	}
	Scan(data, tally.Inc)
	tally.Finish(false)
	c.logger.Debug("Document counted", "document", id, "bytes", len(data))
}
