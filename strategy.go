package letterfreq

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// Strategy selects the aggregation discipline used by a Counter.
type Strategy string

const (
	// Sequential fetches and counts one document at a time.
	Sequential Strategy = "sequential"
	// Locked runs one task per document and serializes every bucket update
	// behind a single mutex. Completion is polled.
	Locked Strategy = "locked"
	// Atomic runs one task per document against per-bucket atomic counters.
	// Completion is joined.
	Atomic Strategy = "atomic"
	// Pooled runs a bounded number of workers that each count privately and
	// send partial histograms to a reducer.
	Pooled Strategy = "pooled"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{Sequential, Locked, Atomic, Pooled}

// ParseStrategy returns the strategy named s, ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	name := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range Strategies {
		if st == name {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Result is the final state of one run.
type Result struct {
	Counts    Counts
	Documents int // batch size
	Failed    int // documents whose fetch failed
}

// Counter counts letters over a batch. The returned Result is only read
// after every task has signaled completion. Fetch failures are reported
// through Result.Failed and logging, never through the error.
type Counter interface {
	Count(ctx context.Context, batch Batch) (Result, error)
}

// DefaultPollInterval is how often the locked counter checks for completion.
const DefaultPollInterval = 500 * time.Millisecond

type options struct {
	logger       *slog.Logger
	pollInterval time.Duration
	workers      int
}

// Option configures a counter.
type Option func(*options)

// WithLogger sets the logger used for task events and fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPollInterval sets the completion polling period of the Locked strategy.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithWorkers sets the pool size of the Pooled strategy.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:       slog.Default(),
		pollInterval: DefaultPollInterval,
		workers:      runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.pollInterval <= 0 {
		o.pollInterval = DefaultPollInterval
	}
	if o.workers <= 0 {
		o.workers = 1
	}
	return o
}

// NewCounter creates the counter for strategy s.
func NewCounter(s Strategy, f Fetcher, opts ...Option) (Counter, error) {
	switch s {
	case Sequential:
		return NewSequentialCounter(f, opts...), nil
	case Locked:
		return NewLockedCounter(f, opts...), nil
	case Atomic:
		return NewAtomicCounter(f, opts...), nil
	case Pooled:
		return NewPooledCounter(f, opts...), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", s)
	}
}

// reportFailure logs a fetch failure at the task boundary.
func reportFailure(logger *slog.Logger, id DocumentID, err error) {
	logger.Warn("Fetch failed, document contributes no counts", "document", id, "error", err)
}
