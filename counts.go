package letterfreq

// Counts is an immutable-by-value histogram over the alphabet.
// The zero value is a valid all-zero histogram.
type Counts [NumLetters]int64

// Get returns the count for l, or 0 if l is not a tracked letter.
func (c Counts) Get(l Letter) int64 {
	if !l.Valid() {
		return 0
	}
	return c[l.index()]
}

// Total returns the sum of every bucket.
func (c Counts) Total() int64 {
	var total int64
	for _, v := range c {
		total += v
	}
	return total
}

// Add returns the bucket-wise sum of c and other.
func (c Counts) Add(other Counts) Counts {
	for i := range c {
		c[i] += other[i]
	}
	return c
}

// Each calls fn for every letter in alphabetical order.
func (c Counts) Each(fn func(l Letter, count int64)) {
	for i, v := range c {
		fn(Letter('a'+i), v)
	}
}

// Map returns the counts keyed by letter. All 26 keys are always present.
func (c Counts) Map() map[Letter]int64 {
	out := make(map[Letter]int64, NumLetters)
	c.Each(func(l Letter, count int64) {
		out[l] = count
	})
	return out
}
