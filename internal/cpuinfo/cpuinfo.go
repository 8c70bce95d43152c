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

// Package cpuinfo reports what the host offers to a parallel sort: logical
// CPUs, the scheduler's parallelism and notable instruction set features,
// and derives the default number of sort workers from them.
package cpuinfo

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Info is a snapshot of the host as seen by the sorter.
type Info struct {
	Arch       string
	NumCPU     int
	GOMAXPROCS int
	// Features lists the detected instruction set extensions, in a fixed
	// order per architecture.
	Features []string
	// Workers is the default worker count: the largest power of two not
	// above GOMAXPROCS.
	Workers int
}

// Detect returns the current host Info.
func Detect() Info {
	procs := runtime.GOMAXPROCS(0)
	return Info{
		Arch:       runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: procs,
		Features:   features(),
		Workers:    floorPowerOfTwo(procs),
	}
}

// String renders the Info on one line.
func (i Info) String() string {
	feats := "none"
	if len(i.Features) > 0 {
		feats = strings.Join(i.Features, ",")
	}
	return fmt.Sprintf("arch=%s cpus=%d gomaxprocs=%d workers=%d features=%s",
		i.Arch, i.NumCPU, i.GOMAXPROCS, i.Workers, feats)
}

// DefaultWorkers returns the worker count used when none is requested.
//
// BITONIC_WORKERS overrides the detected value when it parses as a positive
// integer; it is rounded down to a power of two.
func DefaultWorkers() int {
	if n, ok := WorkersEnv(); ok {
		return floorPowerOfTwo(n)
	}
	return floorPowerOfTwo(runtime.GOMAXPROCS(0))
}

// WorkersEnv returns the value of BITONIC_WORKERS, if set to a positive
// integer.
func WorkersEnv() (int, bool) {
	val := os.Getenv("BITONIC_WORKERS")
	if val == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// floorPowerOfTwo returns the largest power of two <= n, or 1 for n < 1.
func floorPowerOfTwo(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
