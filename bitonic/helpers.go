package bitonic

// Helpers shared by the executor, the tests and callers that want to inspect
// the network without running it in parallel.

// BitonicMerge sorts a bitonic sequence in place in ascending order.
// len(data) must be a power of two.
func BitonicMerge[T Element](data []T) {
	n := len(data)
	if n <= 1 {
		return
	}

	for j := n / 2; j > 0; j /= 2 {
		// Stage n has i&n == 0 for every i < n: all comparators ascend.
		compareSwapColumn(data, 0, n, Column{Stage: n, Distance: j})
	}
}

// IsSorted reports whether data is in nondecreasing order.
func IsSorted[T Element](data []T) bool {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return false
		}
	}
	return true
}

