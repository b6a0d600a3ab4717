package letterfreq

// IDFunc is an identity function that returns its input unchanged.
// It's commonly used as the reduce step when the collection is already the result.
func IDFunc[T any](input T) T {
	return input
}
