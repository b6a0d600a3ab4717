package letterfreq

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// PooledCounter bounds concurrency with a worker limit. Each task counts its
// document into a private Counts, so tasks share nothing but the reducer
// they send partial histograms to.
type PooledCounter struct {
	fetcher Fetcher
	logger  *slog.Logger
	workers int
}

func NewPooledCounter(f Fetcher, opts ...Option) *PooledCounter {
	o := newOptions(opts)
	return &PooledCounter{
		fetcher: f,
		logger:  o.logger.With("strategy", Pooled),
		workers: o.workers,
	}
}

func (c *PooledCounter) Count(ctx context.Context, batch Batch) (Result, error) {
	merge := NewCountsReducer(WithReducerLogger[Counts, Counts, Counts](c.logger))
	defer merge.Stop()

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(c.workers)
	for _, id := range batch {
		g.Go(func() error {
			data, err := fetchDocument(ctx, c.fetcher, id)
			if err != nil {
				reportFailure(c.logger, id, err)
				failed.Add(1)
				return nil
			}
			merge.Send(Count(data))
			c.logger.Debug("Document counted", "document", id, "bytes", len(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("pooled count: %w", err)
	}

	merge.Flush()
	total := <-merge.RecvChan()
	return Result{
		Counts:    total,
		Documents: len(batch),
		Failed:    int(failed.Load()),
	}, nil
}
