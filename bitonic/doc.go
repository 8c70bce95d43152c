// Package bitonic sorts fixed-width signed integers in place with a bitonic
// sorting network executed by a fixed set of parallel workers.
//
// # Algorithm
//
// The bitonic network is oblivious: its comparison schedule does not depend on
// the data. For an array of N = 2^m elements it runs m stages; stage k (k = 2,
// 4, ..., N) merges bitonic runs of length k using columns of compare-and-swap
// operations at distances j = k/2, k/4, ..., 1. Within a column, element i is
// paired with i^j and the pair is ordered ascending when i&k == 0 and
// descending otherwise.
//
// # Parallel decomposition
//
// The index space [0, N) is split into P equal contiguous partitions, one per
// worker. Every worker walks the full schedule, but only initiates compares
// from indices inside its own partition. The partner index may belong to
// another worker's partition; each pair is owned by its lower index, so no two
// workers touch the same pair within a column. After every column all workers
// meet at a reusable Barrier, which orders column (k, j) before column
// (k, j/2) for every worker.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-bitonic/bitonic"
//
//	func Process(data []int32) error {
//	    return bitonic.Sort(data, 4) // len(data) and 4 must be powers of two
//	}
//
// # Failures
//
// Invalid sizes are rejected with ErrInvalidConfiguration before any worker
// starts. A worker that panics breaks the barrier; the remaining workers are
// released and Sort returns an error matching ErrBarrierBroken. On failure the
// contents of the slice are unspecified.
package bitonic
