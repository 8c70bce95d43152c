// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForAtomicBatched(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelForAtomicBatched(n, 10, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

// Batch boundaries must not depend on the number of workers.
func TestParallelForAtomicBatchedBoundaries(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		pool := New(workers)
		var mu sync.Mutex
		starts := map[int]int{}
		pool.ParallelForAtomicBatched(95, 10, func(start, end int) {
			mu.Lock()
			starts[start] = end
			mu.Unlock()
		})
		pool.Close()

		if len(starts) != 10 {
			t.Fatalf("workers=%d: %d batches, want 10", workers, len(starts))
		}
		for start, end := range starts {
			want := min(start+10, 95)
			if start%10 != 0 || end != want {
				t.Errorf("workers=%d: batch [%d, %d), want [%d, %d)", workers, start, end, start, want)
			}
		}
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	// Test with n smaller than workers
	n := 3
	var count atomic.Int32

	pool.ParallelFor(n, func(start, end int) {
		count.Add(int32(end - start))
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.ParallelFor(0, func(start, end int) {
		called = true
	})

	if called {
		t.Error("ParallelFor with n=0 should not call fn")
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)

	// Should still work (sequential fallback)
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

// All parties must run at the same time: each one waits until every other
// party has started.
func TestRunPartiesConcurrent(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for round := range 10 {
		var started sync.WaitGroup
		started.Add(4)
		seen := make([]bool, 4)
		err := pool.RunParties(4, func(id int) error {
			seen[id] = true
			started.Done()
			started.Wait()
			return nil
		})
		if err != nil {
			t.Fatalf("round %d: RunParties: %v", round, err)
		}
		for id, ok := range seen {
			if !ok {
				t.Errorf("round %d: party %d never ran", round, id)
			}
		}
	}
}

func TestRunPartiesErrors(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	errOdd := errors.New("odd party")
	err := pool.RunParties(4, func(id int) error {
		if id%2 == 1 {
			return errOdd
		}
		return nil
	})
	if !errors.Is(err, errOdd) {
		t.Errorf("RunParties error = %v, want %v", err, errOdd)
	}
}

func TestRunPartiesTooMany(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	var called atomic.Bool
	err := pool.RunParties(3, func(int) error {
		called.Store(true)
		return nil
	})
	if !errors.Is(err, ErrTooManyParties) {
		t.Errorf("RunParties(3) on 2 workers = %v, want ErrTooManyParties", err)
	}
	if called.Load() {
		t.Error("no party should run when the gang does not fit")
	}
}

func TestRunPartiesClosedPool(t *testing.T) {
	pool := New(3)
	pool.Close()

	var started sync.WaitGroup
	started.Add(3)
	err := pool.RunParties(3, func(int) error {
		started.Done()
		started.Wait()
		return nil
	})
	if err != nil {
		t.Errorf("RunParties on closed pool: %v", err)
	}
}

func BenchmarkParallelFor(b *testing.B) {
	pool := New(0) // Use GOMAXPROCS
	defer pool.Close()

	n := 1000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.ParallelFor(n, func(start, end int) {
			for j := start; j < end; j++ {
				_ = j * j
			}
		})
	}
}

func BenchmarkRunParties(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	parties := pool.NumWorkers()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.RunParties(parties, func(int) error { return nil })
	}
}
