// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver

import (
	"math/rand/v2"
	"sort"
	"sync"

	psort "github.com/exascience/pargo/sort"

	"github.com/ajroetker/go-bitonic/bitonic"
	"github.com/ajroetker/go-bitonic/workerpool"
)

// fillBatch is the number of elements generated from one random stream.
const fillBatch = 1 << 16

// Fill overwrites data with pseudo-random values. Each batch of fillBatch
// elements draws from its own PCG stream keyed by (seed, batch start), so the
// result depends only on seed and len(data), not on the pool size.
func Fill[T bitonic.Element](pool *workerpool.Pool, data []T, seed uint64) {
	pool.ParallelForAtomicBatched(len(data), fillBatch, func(start, end int) {
		rng := rand.New(rand.NewPCG(seed, uint64(start)))
		for i := start; i < end; i++ {
			data[i] = T(rng.Uint64())
		}
	})
}

// Verify reports whether data is in nondecreasing order. Large inputs are
// checked in parallel and stop early at the first inversion.
func Verify[T bitonic.Element](data []T) bool {
	return psort.IsSorted(elements[T](data))
}

// elements adapts a slice to sort.Interface for the parallel checker.
type elements[T bitonic.Element] []T

func (s elements[T]) Len() int           { return len(s) }
func (s elements[T]) Less(i, j int) bool { return s[i] < s[j] }
func (s elements[T]) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

var _ sort.Interface = elements[int32](nil)

// Digest summarizes the multiset of values in a buffer. Two buffers holding
// permutations of each other have equal digests.
type Digest struct {
	Sum uint64
	Xor uint64
	Len int
}

// Checksum computes the Digest of data in parallel.
func Checksum[T bitonic.Element](pool *workerpool.Pool, data []T) Digest {
	var (
		mu  sync.Mutex
		out = Digest{Len: len(data)}
	)
	pool.ParallelFor(len(data), func(start, end int) {
		var sum, xor uint64
		for _, v := range data[start:end] {
			sum += uint64(v)
			xor ^= uint64(v)
		}
		mu.Lock()
		out.Sum += sum
		out.Xor ^= xor
		mu.Unlock()
	})
	return out
}
