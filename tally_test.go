package letterfreq

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapTallyFixedKeySet(t *testing.T) {
	tally := NewMapTally()
	assert.Len(t, tally.buckets, NumLetters)

	tally.Inc('x')
	tally.Inc('X')
	tally.Inc('1')
	tally.Inc(0)
	assert.Len(t, tally.buckets, NumLetters, "Untracked letters must not add buckets")

	c := tally.Snapshot()
	assert.Equal(t, int64(1), c.Get('x'))
	assert.Equal(t, int64(1), c.Total())
}

func TestNewTalliesStartAtZero(t *testing.T) {
	for name, tally := range map[string]Tally{
		"map":    NewMapTally(),
		"locked": NewLockedTally(),
		"atomic": NewAtomicTally(),
	} {
		assert.Equal(t, Counts{}, tally.Snapshot(), name)
	}
}

// Each of n goroutines increments the same bucket m times. Any lost update
// shows up as a total below n*m.
func TestConcurrentTalliesLoseNoUpdates(t *testing.T) {
	const n, m = 64, 5000
	for name, tally := range map[string]Tally{
		"locked": NewLockedTally(),
		"atomic": NewAtomicTally(),
	} {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range m {
						tally.Inc('e')
					}
				}()
			}
			wg.Wait()
			c := tally.Snapshot()
			assert.Equal(t, int64(n*m), c.Get('e'))
			assert.Equal(t, int64(n*m), c.Total())
		})
	}
}

func TestConcurrentTalliesDistinctLetters(t *testing.T) {
	const m = 2000
	for name, tally := range map[string]Tally{
		"locked": NewLockedTally(),
		"atomic": NewAtomicTally(),
	} {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < NumLetters; i++ {
				l := Letter(Alphabet[i])
				for range 4 {
					wg.Add(1)
					go func() {
						defer wg.Done()
						for range m {
							tally.Inc(l)
						}
					}()
				}
			}
			wg.Wait()
			tally.Snapshot().Each(func(l Letter, count int64) {
				assert.Equal(t, int64(4*m), count, "letter %s", l)
			})
		})
	}
}

func TestLockedTallyFinish(t *testing.T) {
	tally := NewLockedTally()
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tally.Finish(i%10 == 0)
		}()
	}
	wg.Wait()
	finished, failed := tally.Finished()
	assert.Equal(t, 100, finished)
	assert.Equal(t, 10, failed)
}

func TestCountsHelpers(t *testing.T) {
	a := Count([]byte("aab"))
	b := Count([]byte("bcc"))
	sum := a.Add(b)
	assert.Equal(t, int64(2), sum.Get('a'))
	assert.Equal(t, int64(2), sum.Get('b'))
	assert.Equal(t, int64(2), sum.Get('c'))
	assert.Equal(t, int64(2), a.Get('a'), "Add must not modify the receiver")
	assert.Equal(t, int64(0), sum.Get('?'))

	m := sum.Map()
	assert.Len(t, m, NumLetters)
	assert.Equal(t, int64(0), m['z'])
}
