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
	"iter"

	"golang.org/x/exp/constraints"
)

// Element is the set of types the network sorts: fixed-width signed integers.
type Element interface {
	constraints.Signed
}

// Column is one column of the network: stage k merges bitonic runs of length
// Stage, comparing elements Distance apart.
type Column struct {
	Stage    int
	Distance int
}

// Schedule yields the columns of the network for n elements in the order
// every worker executes them: stages 2, 4, ..., n and, within a stage,
// distances k/2, k/4, ..., 1.
func Schedule(n int) iter.Seq[Column] {
	return func(yield func(Column) bool) {
		for k := 2; k <= n; k *= 2 {
			for j := k / 2; j > 0; j /= 2 {
				if !yield(Column{Stage: k, Distance: j}) {
					return
				}
			}
		}
	}
}

// ColumnCount returns the number of columns, and so of barrier rounds, in the
// network for n elements: log2(n) * (log2(n)+1) / 2.
func ColumnCount(n int) int {
	if n < 2 {
		return 0
	}
	m := Log2(n)
	return m * (m + 1) / 2
}

// Comparator is a single compare-and-swap of the network. After it runs,
// data[Lo] <= data[Hi] when Ascending and data[Lo] >= data[Hi] otherwise.
type Comparator struct {
	Lo, Hi    int
	Ascending bool
}

// Comparators returns the comparators of column c of an n element network in
// increasing order of Lo. Each unordered pair appears once, owned by its lower
// index.
func Comparators(n int, c Column) []Comparator {
	out := make([]Comparator, 0, n/2)
	for i := 0; i < n; i++ {
		if partner := i ^ c.Distance; partner > i {
			out = append(out, Comparator{Lo: i, Hi: partner, Ascending: i&c.Stage == 0})
		}
	}
	return out
}

// compareSwapColumn applies column c to every index in [start, end) of data.
// Partners outside the range are read and written; the lower index of a pair
// always initiates the exchange.
func compareSwapColumn[T Element](data []T, start, end int, c Column) {
	k, j := c.Stage, c.Distance
	for i := start; i < end; i++ {
		partner := i ^ j
		if partner <= i {
			continue
		}
		if i&k == 0 {
			if data[i] > data[partner] {
				data[i], data[partner] = data[partner], data[i]
			}
		} else if data[i] < data[partner] {
			data[i], data[partner] = data[partner], data[i]
		}
	}
}
