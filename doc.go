// Package letterfreq counts lowercase letter frequencies across a batch of
// fetched documents and compares ways of aggregating one shared histogram
// from many concurrent producers.
//
// The main components include:
//
//   - Tally: a fixed 26-bucket histogram. MapTally is unguarded, LockedTally
//     serializes every update behind one mutex, AtomicTally gives each bucket
//     its own atomic counter
//   - Scan / Count: the counting pass over one document's bytes
//   - Fetcher: retrieves a document (HTTPFetcher, BlobFetcher, SchemeFetcher)
//   - Counter: drives a whole batch with one aggregation Strategy
//   - Reducer: collects and reduces values from a channel; used to merge
//     partial histograms in the pooled strategy
//
// Strategies:
//
//   - Sequential: one goroutine, one document at a time
//   - Locked: one goroutine per document, one shared lock, completion polled
//   - Atomic: one goroutine per document, lock-free buckets, completion joined
//   - Pooled: bounded workers with private histograms merged at the end
//
// A failed fetch is logged and contributes nothing; it still counts as a
// finished task, so no strategy waits forever on it. Every strategy returns
// the same Counts for the same document contents.
package letterfreq
