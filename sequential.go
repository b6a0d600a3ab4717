package letterfreq

import (
	"context"
	"log/slog"
)

// SequentialCounter fetches and counts documents one after another on the
// calling goroutine. It is the correctness and speed baseline.
type SequentialCounter struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewSequentialCounter(f Fetcher, opts ...Option) *SequentialCounter {
	o := newOptions(opts)
	return &SequentialCounter{
		fetcher: f,
		logger:  o.logger.With("strategy", Sequential),
	}
}

func (c *SequentialCounter) Count(ctx context.Context, batch Batch) (Result, error) {
	tally := NewMapTally()
	res := Result{Documents: len(batch)}
	for _, id := range batch {
		data, err := fetchDocument(ctx, c.fetcher, id)
		if err != nil {
			reportFailure(c.logger, id, err)
			res.Failed++
			continue
		}
		Scan(data, tally.Inc)
		c.logger.Debug("Document counted", "document", id, "bytes", len(data))
	}
	res.Counts = tally.Snapshot()
	return res, nil
}
