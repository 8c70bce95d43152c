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
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-bitonic/internal/cpuinfo"
	"github.com/ajroetker/go-bitonic/workerpool"
)

// Options configures a parallel sort.
type Options struct {
	// Workers is the number of parallel workers P. It must be a power of two
	// not larger than len(data). Zero selects cpuinfo.DefaultWorkers, capped
	// at len(data).
	Workers int

	// BarrierTimeout bounds each barrier wait. A worker still waiting after
	// this long breaks the barrier and the sort fails. Zero waits forever.
	BarrierTimeout time.Duration

	// Pool, if set, runs the workers on a persistent pool instead of fresh
	// goroutines. It must have at least Workers idle workers.
	Pool *workerpool.Pool

	// Logger receives debug and error records. Nil discards them.
	Logger *slog.Logger

	// beforeColumn is called by each worker before it processes a column.
	beforeColumn func(id int, c Column)
}

// Sort sorts data in nondecreasing order, in place, using workers parallel
// workers. len(data) and workers must be powers of two with
// workers <= len(data); workers == 0 picks a default.
//
// On error the contents of data are unspecified.
func Sort[T Element](data []T, workers int) error {
	return SortWithOptions(data, Options{Workers: workers})
}

// SortWithOptions is Sort with explicit Options.
func SortWithOptions[T Element](data []T, opts Options) error {
	n := len(data)
	p := opts.Workers
	if p == 0 {
		p = min(cpuinfo.DefaultWorkers(), max(n, 1))
	}
	parts, err := PlanAll(n, p)
	if err != nil {
		return err
	}
	if opts.Pool != nil && p > opts.Pool.NumWorkers() {
		return invalid(n, p, "pool has only %d workers", opts.Pool.NumWorkers())
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &executor[T]{
		data:         data,
		barrier:      NewBarrier(p),
		timeout:      opts.BarrierTimeout,
		states:       make([]atomic.Int32, p),
		logger:       logger,
		beforeColumn: opts.beforeColumn,
	}

	start := time.Now()
	logger.Debug("bitonic sort starting", "n", n, "workers", p,
		"section", n/p, "columns", ColumnCount(n))

	if opts.Pool != nil {
		err = opts.Pool.RunParties(p, func(id int) error {
			return e.work(parts[id])
		})
	} else {
		var g errgroup.Group
		for _, part := range parts {
			g.Go(func() error {
				return e.work(part)
			})
		}
		err = g.Wait()
	}

	if berr := e.barrier.Err(); berr != nil {
		logger.Error("bitonic sort failed", "n", n, "workers", p,
			"states", e.snapshot(), "error", berr)
		return berr
	}
	if err != nil {
		return fmt.Errorf("bitonic: sort of %d elements: %w", n, err)
	}

	logger.Debug("bitonic sort done", "n", n, "workers", p,
		"rounds", e.barrier.Generation(), "elapsed", time.Since(start))
	return nil
}

// SortSequential runs the network on a single goroutine with no barrier.
// len(data) must be a power of two.
func SortSequential[T Element](data []T) error {
	n := len(data)
	if err := Validate(n, 1); err != nil {
		return err
	}
	for c := range Schedule(n) {
		compareSwapColumn(data, 0, n, c)
	}
	return nil
}

// WorkerState is the lifecycle state of a sort worker.
type WorkerState int32

const (
	WorkerCreated WorkerState = iota
	WorkerRunning
	WorkerAwaitingBarrier
	WorkerCompleted
	WorkerFailed
)

func (s WorkerState) String() string {
	switch s {
	case WorkerCreated:
		return "created"
	case WorkerRunning:
		return "running"
	case WorkerAwaitingBarrier:
		return "awaiting-barrier"
	case WorkerCompleted:
		return "completed"
	case WorkerFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// executor holds the state shared by the workers of one sort.
type executor[T Element] struct {
	data         []T
	barrier      *Barrier
	timeout      time.Duration
	states       []atomic.Int32
	logger       *slog.Logger
	beforeColumn func(id int, c Column)
}

func (e *executor[T]) setState(id int, s WorkerState) {
	e.states[id].Store(int32(s))
}

// snapshot returns the current state of every worker, by id.
func (e *executor[T]) snapshot() []string {
	out := make([]string, len(e.states))
	for id := range e.states {
		out[id] = WorkerState(e.states[id].Load()).String()
	}
	return out
}

// work runs the whole schedule over one partition. Every worker awaits the
// barrier after every column, the last one included, so all parties make the
// same number of barrier calls.
func (e *executor[T]) work(part Partition) (err error) {
	id := part.ID
	var current Column
	defer func() {
		if r := recover(); r != nil {
			werr := &WorkerError{ID: id, Column: current, Cause: fmt.Errorf("panic: %v", r)}
			e.setState(id, WorkerFailed)
			e.barrier.Break(werr)
			e.logger.Error("bitonic worker panicked", "worker", id,
				"stage", current.Stage, "distance", current.Distance, "panic", r)
			err = werr
		}
	}()

	for c := range Schedule(len(e.data)) {
		current = c
		e.setState(id, WorkerRunning)
		if e.beforeColumn != nil {
			e.beforeColumn(id, c)
		}
		compareSwapColumn(e.data, part.Start, part.End, c)

		e.setState(id, WorkerAwaitingBarrier)
		if err := e.barrier.AwaitTimeout(e.timeout); err != nil {
			e.setState(id, WorkerFailed)
			return err
		}
	}
	e.setState(id, WorkerCompleted)
	return nil
}
