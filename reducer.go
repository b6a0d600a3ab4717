package letterfreq

import (
	"log/slog"
	"sync"
	"time"
)

// Reducer collects values of type T into a collection C and reduces the
// collection to U on every flush. The pooled counter uses it to merge
// partial histograms: T and C are Counts, and the collect step is a
// bucket-wise add.
//
// All collection state is owned by the reducer goroutine. Flushes requested
// from outside are delivered as commands, so they never race with Send.
type Reducer[T any, C any, U any] struct {
	// FlushPeriod triggers a flush on a timer. Zero disables timed flushes.
	FlushPeriod time.Duration
	// CollectFunc adds an input to the collection and returns the updated collection.
	// The bool return value indicates whether a flush should be triggered immediately.
	CollectFunc   func(input T, collection C) (C, bool)
	ReduceFunc    func(collectedItems C) (reducedOutputs U)
	pendingEvents C
	inputChan     chan T
	selfOwnOut    bool
	outputChan    chan U
	cmdChan       chan reducerCmd
	closedChan    chan struct{}
	stopOnce      sync.Once
	logger        *slog.Logger
	wg            sync.WaitGroup
}

type reducerCmd struct {
	Name string
}

// ReducerOption is a functional option for configuring a Reducer
type ReducerOption[T any, C any, U any] func(*Reducer[T, C, U])

// WithFlushPeriod sets the flush period for the reducer
func WithFlushPeriod[T any, C any, U any](period time.Duration) ReducerOption[T, C, U] {
	return func(r *Reducer[T, C, U]) {
		r.FlushPeriod = period
	}
}

// WithInputChan sets the input channel for the reducer
func WithInputChan[T any, C any, U any](ch chan T) ReducerOption[T, C, U] {
	return func(r *Reducer[T, C, U]) {
		r.inputChan = ch
	}
}

// WithOutputChan sets the output channel for the reducer
func WithOutputChan[T any, C any, U any](ch chan U) ReducerOption[T, C, U] {
	return func(r *Reducer[T, C, U]) {
		r.outputChan = ch
		r.selfOwnOut = false
	}
}

// WithReduceFuncs sets the collect and reduce steps before the reducer starts.
func WithReduceFuncs[T any, C any, U any](collect func(T, C) (C, bool), reduce func(C) U) ReducerOption[T, C, U] {
	return func(r *Reducer[T, C, U]) {
		r.CollectFunc = collect
		r.ReduceFunc = reduce
	}
}

// WithReducerLogger sets the logger used for flush events.
func WithReducerLogger[T any, C any, U any](logger *slog.Logger) ReducerOption[T, C, U] {
	return func(r *Reducer[T, C, U]) {
		r.logger = logger
	}
}

// NewReducer creates a reducer over generic input and output types.
// If channels are not provided via options, the reducer creates them and
// closes the output channel it owns on Stop.
// The Reducer starts as soon as it is created.
func NewReducer[T any, C any, U any](opts ...ReducerOption[T, C, U]) *Reducer[T, C, U] {
	out := &Reducer[T, C, U]{
		FlushPeriod: 100 * time.Millisecond,
		cmdChan:     make(chan reducerCmd),
		closedChan:  make(chan struct{}),
		selfOwnOut:  true,
	}
	for _, opt := range opts {
		opt(out)
	}
	if out.logger == nil {
		out.logger = slog.Default()
	}
	if out.inputChan == nil {
		out.inputChan = make(chan T)
	}
	if out.outputChan == nil {
		out.outputChan = make(chan U)
	}
	out.start()
	return out
}

// NewCountsReducer creates a Reducer that sums partial histograms.
// Timed flushes are off; the owner calls Flush once every partial is sent.
func NewCountsReducer(opts ...ReducerOption[Counts, Counts, Counts]) *Reducer[Counts, Counts, Counts] {
	opts = append([]ReducerOption[Counts, Counts, Counts]{
		WithFlushPeriod[Counts, Counts, Counts](0),
		WithReduceFuncs(
			func(partial Counts, total Counts) (Counts, bool) {
				return total.Add(partial), false
			},
			IDFunc[Counts],
		),
	}, opts...)
	return NewReducer(opts...)
}

// RecvChan returns the channel on which reduced values are delivered.
func (fo *Reducer[T, C, U]) RecvChan() <-chan U {
	return fo.outputChan
}

// Send sends a value onto this reducer for (eventual) reduction.
// It returns false, dropping the value, once the reducer has stopped.
func (fo *Reducer[T, C, U]) Send(value T) bool {
	select {
	case fo.inputChan <- value:
		return true
	case <-fo.closedChan:
		return false
	}
}

// Flush asks the reducer to reduce everything collected so far and deliver
// it on RecvChan. Values sent before Flush returned are included. The
// result must be received before Stop is called. It returns false if the
// reducer has already stopped.
func (fo *Reducer[T, C, U]) Flush() bool {
	select {
	case fo.cmdChan <- reducerCmd{Name: "flush"}:
		return true
	case <-fo.closedChan:
		return false
	}
}

// Stop stops the reducer and closes all channels it owns.
// Calling it more than once is safe.
func (fo *Reducer[T, C, U]) Stop() {
	fo.stopOnce.Do(func() {
		select {
		case fo.cmdChan <- reducerCmd{Name: "stop"}:
		case <-fo.closedChan:
		}
	})
	fo.wg.Wait()
}

// ClosedChan is closed once the reducer goroutine has exited.
func (fo *Reducer[T, C, U]) ClosedChan() <-chan struct{} {
	return fo.closedChan
}

func (fo *Reducer[T, C, U]) start() {
	var tick <-chan time.Time
	var ticker *time.Ticker
	if fo.FlushPeriod > 0 {
		ticker = time.NewTicker(fo.FlushPeriod)
		tick = ticker.C
	}
	fo.wg.Add(1)
	go func() {
		defer func() {
			if ticker != nil {
				ticker.Stop()
			}
			if fo.selfOwnOut {
				close(fo.outputChan)
			}
			close(fo.closedChan)
			fo.wg.Done()
		}()
		for {
			select {
			case event := <-fo.inputChan:
				var shouldFlush bool
				fo.pendingEvents, shouldFlush = fo.CollectFunc(event, fo.pendingEvents)
				if shouldFlush {
					fo.flush()
				}
			case <-tick:
				fo.flush()
			case cmd := <-fo.cmdChan:
				switch cmd.Name {
				case "flush":
					fo.flush()
				case "stop":
					return
				}
			}
		}
	}()
}

func (fo *Reducer[T, C, U]) flush() {
	fo.logger.Debug("Flushing reducer")
	joined := fo.ReduceFunc(fo.pendingEvents)
	var zero C
	fo.pendingEvents = zero
	fo.outputChan <- joined
}
