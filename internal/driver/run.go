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

// Package driver runs the sorting benchmark: it fills a buffer with random
// values, sorts it with the parallel bitonic network, optionally verifies it,
// and repeats until a wall-clock budget is spent.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/ajroetker/go-bitonic/bitonic"
	"github.com/ajroetker/go-bitonic/internal/config"
	"github.com/ajroetker/go-bitonic/workerpool"
)

// Run executes the benchmark described by cfg and reports progress to sink.
//
// A new round starts only while the budget has not elapsed and ctx is not
// done; a round in progress always finishes. A sort error ends the run and is
// returned together with the report of the rounds completed so far.
func Run(ctx context.Context, cfg config.Config, sink Sink, logger *slog.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	n := cfg.N()
	report := Report{N: n, Workers: cfg.Workers, Section: cfg.Section()}

	pool := workerpool.New(max(cfg.Workers, runtime.GOMAXPROCS(0)))
	defer pool.Close()

	opts := bitonic.Options{
		Workers:        cfg.Workers,
		BarrierTimeout: cfg.BarrierTimeout,
		Logger:         logger,
	}
	if cfg.UsePool {
		opts.Pool = pool
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Debug("run configured", "n", n, "workers", cfg.Workers,
		"duration", cfg.Duration, "seed", seed, "pool", cfg.UsePool)

	data := make([]int32, n)
	sink.Section(n, report.Section)

	start := time.Now()
	deadline := start.Add(cfg.Duration)
	for time.Now().Before(deadline) && ctx.Err() == nil {
		round := report.Count
		Fill(pool, data, seed+uint64(round))

		var before Digest
		if cfg.Verify {
			before = Checksum(pool, data)
		}

		if err := bitonic.SortWithOptions(data, opts); err != nil {
			report.Elapsed = time.Since(start)
			return report, fmt.Errorf("driver: round %d: %w", round, err)
		}

		if cfg.Verify {
			ok := Verify(data) && Checksum(pool, data) == before
			if !ok {
				report.Failures++
			}
			sink.Verified(round, ok)
		}
		report.Count++
	}

	report.Elapsed = time.Since(start)
	sink.Done(report)
	return report, nil
}
