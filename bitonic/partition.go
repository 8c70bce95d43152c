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

package bitonic

import (
	"math/bits"

	"github.com/samber/lo"
)

// Partition is the half-open index range [Start, End) a worker initiates
// compares from.
type Partition struct {
	ID    int
	Start int
	End   int
}

// Len returns End - Start.
func (p Partition) Len() int {
	return p.End - p.Start
}

// Contains reports whether i lies inside the partition.
func (p Partition) Contains(i int) bool {
	return i >= p.Start && i < p.End
}

// Plan returns the partition of worker id when n elements are split across p
// workers. p must divide n.
func Plan(id, n, p int) (Partition, error) {
	if p <= 0 {
		return Partition{}, invalid(n, p, "worker count must be positive")
	}
	if n < 0 || n%p != 0 {
		return Partition{}, invalid(n, p, "worker count does not divide element count")
	}
	if id < 0 || id >= p {
		return Partition{}, invalid(n, p, "worker id %d out of range", id)
	}
	section := n / p
	start := id * section
	return Partition{ID: id, Start: start, End: start + section}, nil
}

// PlanAll validates (n, p) as a sort configuration and returns the p
// partitions in worker order. Their union is exactly [0, n).
func PlanAll(n, p int) ([]Partition, error) {
	if err := Validate(n, p); err != nil {
		return nil, err
	}
	section := n / p
	return lo.Map(lo.Range(p), func(id int, _ int) Partition {
		return Partition{ID: id, Start: id * section, End: (id + 1) * section}
	}), nil
}

// Validate checks the preconditions of a parallel sort of n elements with p
// workers.
func Validate(n, p int) error {
	switch {
	case !IsPowerOfTwo(n):
		return invalid(n, p, "element count must be a positive power of two")
	case !IsPowerOfTwo(p):
		return invalid(n, p, "worker count must be a positive power of two")
	case p > n:
		return invalid(n, p, "more workers than elements")
	}
	return nil
}

// IsPowerOfTwo reports whether x is a positive power of two.
func IsPowerOfTwo(x int) bool {
	return x > 0 && x&(x-1) == 0
}

// Log2 returns floor(log2(x)) for x > 0.
func Log2(x int) int {
	return bits.Len(uint(x)) - 1
}
