package letterfreq

import (
	"sync"
	"sync/atomic"
)

// Tally is a histogram keyed by the tracked alphabet. Its key set is fixed
// at construction; Inc on a letter outside the alphabet is a no-op.
// Whether Inc is safe for concurrent use depends on the implementation.
type Tally interface {
	Inc(l Letter)
	Snapshot() Counts
}

// MapTally is an unguarded tally. It must only be used by one goroutine.
type MapTally struct {
	buckets map[Letter]int64
}

// NewMapTally returns a MapTally with all 26 buckets at zero.
func NewMapTally() *MapTally {
	buckets := make(map[Letter]int64, NumLetters)
	for i := 0; i < NumLetters; i++ {
		buckets[Letter(Alphabet[i])] = 0
	}
	return &MapTally{buckets: buckets}
}

// Inc increments the bucket for l if the bucket exists.
// This is a check, a read and a write; none of it is atomic.
func (t *MapTally) Inc(l Letter) {
	if v, ok := t.buckets[l]; ok {
		t.buckets[l] = v + 1
	}
}

func (t *MapTally) Snapshot() Counts {
	var c Counts
	for l, v := range t.buckets {
		c[l.index()] = v
	}
	return c
}

// LockedTally guards a MapTally and a completion counter with one mutex.
// Every bucket mutation and every completion update funnels through the
// same lock.
type LockedTally struct {
	mu       sync.Mutex
	buckets  *MapTally
	finished int
	failed   int
}

// NewLockedTally returns a LockedTally with all buckets at zero.
func NewLockedTally() *LockedTally {
	return &LockedTally{buckets: NewMapTally()}
}

// Inc runs the whole check-read-write of MapTally.Inc under the lock.
func (t *LockedTally) Inc(l Letter) {
	t.mu.Lock()
	t.buckets.Inc(l)
	t.mu.Unlock()
}

// Finish records that one task is done. Failed tasks count as finished.
func (t *LockedTally) Finish(failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished++
	if failed {
		t.failed++
	}
}

// Finished returns how many tasks have called Finish and how many of them failed.
func (t *LockedTally) Finished() (finished, failed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished, t.failed
}

func (t *LockedTally) Snapshot() Counts {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buckets.Snapshot()
}

// AtomicTally holds one atomic counter per bucket and no lock.
// Tasks incrementing different letters never contend.
type AtomicTally struct {
	buckets [NumLetters]atomic.Int64
}

// NewAtomicTally returns an AtomicTally with all buckets at zero.
func NewAtomicTally() *AtomicTally {
	return &AtomicTally{}
}

func (t *AtomicTally) Inc(l Letter) {
	if l.Valid() {
		t.buckets[l.index()].Add(1)
	}
}

// Snapshot loads every bucket. It is only a consistent view once all
// writers have been joined.
func (t *AtomicTally) Snapshot() Counts {
	var c Counts
	for i := range t.buckets {
		c[i] = t.buckets[i].Load()
	}
	return c
}
