// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for the
// data-parallel chores around a sort: filling buffers, checking them, and
// running the workers of a bitonic sort itself.
//
// A Pool is created once and reused across many sorts, so the repeat loop of
// a benchmark run does not pay goroutine spawn cost on every array.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for range rounds {
//	    pool.ParallelFor(n, func(start, end int) {
//	        fill(data[start:end])
//	    })
//	}
package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrTooManyParties is returned by RunParties when more parties are
// requested than the pool has workers. Parties block on each other, so they
// must all be running at once.
var ErrTooManyParties = errors.New("workerpool: more parties than workers")

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
	// gang serializes RunParties calls so two gangs never split the workers
	// between them.
	gang sync.Mutex
}

// workItem represents a single task of a parallel operation.
type workItem struct {
	fn   func()
	done *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.done.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each. Blocks until all ranges are done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}

		p.workC <- workItem{
			fn: func() {
				fn(start, end)
			},
			done: &wg,
		}
	}

	wg.Wait()
}

// ParallelForAtomicBatched calls fn(start, end) for consecutive batches of
// batchSize indices of [0, n), handing batches out to workers with an atomic
// counter. Batch boundaries depend only on n and batchSize, never on the
// number of workers.
func (p *Pool) ParallelForAtomicBatched(n int, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if batchSize <= 0 {
		batchSize = 1
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)

	if p.closed.Load() || workers == 1 {
		for start := 0; start < n; start += batchSize {
			fn(start, min(start+batchSize, n))
		}
		return
	}

	var nextBatch atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					batch := int(nextBatch.Add(1)) - 1
					start := batch * batchSize
					if start >= n {
						return
					}
					fn(start, min(start+batchSize, n))
				}
			},
			done: &wg,
		}
	}

	wg.Wait()
}

// RunParties runs fn(0) ... fn(n-1) concurrently, one per worker, and waits
// for all of them. Unlike ParallelFor the calls may block on each other (for
// example at a barrier), so n must not exceed NumWorkers and the pool must
// not be busy with other work. Concurrent RunParties calls are serialized.
//
// The returned error joins the non-nil errors of all parties.
func (p *Pool) RunParties(n int, fn func(id int) error) error {
	if n <= 0 {
		return nil
	}
	if n > p.numWorkers {
		return fmt.Errorf("%w: %d parties, %d workers", ErrTooManyParties, n, p.numWorkers)
	}

	if p.closed.Load() {
		// A closed pool has no workers left; give each party its own
		// goroutine so they can still rendezvous.
		return runGoroutines(n, fn)
	}

	p.gang.Lock()
	defer p.gang.Unlock()

	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for id := range n {
		p.workC <- workItem{
			fn: func() {
				errs[id] = fn(id)
			},
			done: &wg,
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

func runGoroutines(n int, fn func(id int) error) error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for id := range n {
		go func() {
			defer wg.Done()
			errs[id] = fn(id)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
