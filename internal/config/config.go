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

// Package config holds the parameters of a benchmark run and loads them from
// defaults and BITONIC_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ajroetker/go-bitonic/bitonic"
	"github.com/ajroetker/go-bitonic/internal/cpuinfo"
)

// Benchmark defaults: 2^22 elements sorted repeatedly for ten seconds.
const (
	DefaultLog2N       = 22
	DefaultDuration    = 10 * time.Second
	DefaultGranularity = 1

	// MaxLog2N keeps the buffer allocation within reason.
	MaxLog2N = 30
)

// Config is the full set of run parameters.
type Config struct {
	// Workers is the number of sort workers P.
	Workers int
	// Granularity is the number of network columns between barriers. Only 1
	// is sound: every column depends on the one before it.
	Granularity int
	// Log2N is the base-2 logarithm of the element count.
	Log2N int
	// Duration is the wall-clock budget of the repeat loop. No new sort
	// starts after it elapses; a running sort is never interrupted.
	Duration time.Duration
	// Seed seeds the random fill. Zero picks a fresh seed per run.
	Seed uint64
	// Verify enables the post-sort check of every array.
	Verify bool
	// UsePool runs sort workers on a persistent pool.
	UsePool bool
	// BarrierTimeout bounds each barrier wait; zero waits forever.
	BarrierTimeout time.Duration
	// LogLevel is the minimum level of structured log records.
	LogLevel slog.Level
}

// Default returns the benchmark defaults with the worker count detected
// from the host.
func Default() Config {
	return Config{
		Workers:     cpuinfo.DefaultWorkers(),
		Granularity: DefaultGranularity,
		Log2N:       DefaultLog2N,
		Duration:    DefaultDuration,
		Verify:      true,
		LogLevel:    slog.LevelInfo,
	}
}

// N returns the element count, 2^Log2N.
func (c Config) N() int {
	return 1 << c.Log2N
}

// Section returns the number of elements each worker owns.
func (c Config) Section() int {
	if c.Workers <= 0 {
		return 0
	}
	return c.N() / c.Workers
}

// Validate reports the first problem with c. Sizing errors match
// bitonic.ErrInvalidConfiguration.
func (c Config) Validate() error {
	if c.Log2N < 0 || c.Log2N > MaxLog2N {
		return fmt.Errorf("%w: log2n %d outside [0, %d]", bitonic.ErrInvalidConfiguration, c.Log2N, MaxLog2N)
	}
	if c.Granularity != 1 {
		return fmt.Errorf("%w: granularity %d not supported, only 1", bitonic.ErrInvalidConfiguration, c.Granularity)
	}
	if c.Duration < 0 {
		return fmt.Errorf("config: negative duration %s", c.Duration)
	}
	if c.BarrierTimeout < 0 {
		return fmt.Errorf("config: negative barrier timeout %s", c.BarrierTimeout)
	}
	return bitonic.Validate(c.N(), c.Workers)
}

// FromEnv applies BITONIC_* environment overrides on top of c.
//
//	BITONIC_WORKERS          worker count
//	BITONIC_LOG2N            log2 of the element count
//	BITONIC_DURATION         run budget, time.ParseDuration syntax
//	BITONIC_SEED             fill seed
//	BITONIC_NO_VERIFY        disable verification (any true value)
//	BITONIC_BARRIER_TIMEOUT  barrier wait bound
//	BITONIC_LOG_LEVEL        debug, info, warn or error
func (c Config) FromEnv() (Config, error) {
	return c.fromLookup(os.LookupEnv)
}

func (c Config) fromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("BITONIC_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("config: BITONIC_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v, ok := get("BITONIC_LOG2N"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("config: BITONIC_LOG2N: %w", err)
		}
		c.Log2N = n
	}
	if v, ok := get("BITONIC_DURATION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("config: BITONIC_DURATION: %w", err)
		}
		c.Duration = d
	}
	if v, ok := get("BITONIC_SEED"); ok {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c, fmt.Errorf("config: BITONIC_SEED: %w", err)
		}
		c.Seed = s
	}
	if v, ok := get("BITONIC_NO_VERIFY"); ok {
		// Any non-empty value disables verification unless it parses as false.
		if b, err := strconv.ParseBool(v); err == nil {
			c.Verify = !b
		} else {
			c.Verify = false
		}
	}
	if v, ok := get("BITONIC_BARRIER_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("config: BITONIC_BARRIER_TIMEOUT: %w", err)
		}
		c.BarrierTimeout = d
	}
	if v, ok := get("BITONIC_LOG_LEVEL"); ok {
		lvl, err := ParseLevel(v)
		if err != nil {
			return c, err
		}
		c.LogLevel = lvl
	}
	return c, nil
}

// ParseLevel parses a log level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", s, err)
	}
	return lvl, nil
}
