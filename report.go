package letterfreq

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Report is what the driver prints after a run.
type Report struct {
	Strategy Strategy
	Elapsed  time.Duration
	Result
}

// Run times counter over batch.
func Run(ctx context.Context, s Strategy, counter Counter, batch Batch) (Report, error) {
	start := time.Now()
	res, err := counter.Count(ctx, batch)
	elapsed := time.Since(start)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", s, err)
	}
	return Report{Strategy: s, Elapsed: elapsed, Result: res}, nil
}

// WriteTo writes the elapsed time followed by one "<letter>, <count>" line
// per letter in alphabetical order.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var written int64
	n, err := fmt.Fprintf(w, "Done. Time taken: %d ms (%.2f s)\n", r.Elapsed.Milliseconds(), r.Elapsed.Seconds())
	written += int64(n)
	if err != nil {
		return written, err
	}
	for i := 0; i < NumLetters; i++ {
		l := Letter(Alphabet[i])
		n, err := fmt.Fprintf(w, "%s, %d\n", l, r.Counts.Get(l))
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
