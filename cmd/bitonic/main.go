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

// Command bitonic benchmarks the parallel bitonic sort: it repeatedly fills
// an array of 2^log2n random 32-bit integers, sorts it with P workers and
// verifies the result, until the time budget is spent.
//
// Usage:
//
//	bitonic 8 1                       # P=8, granularity 1
//	bitonic -p 4 --log2n 20 --duration 5s
//	bitonic --pool --barrier-timeout 30s
//	bitonic cpu                       # show detected CPU features
//
// Every flag also has a BITONIC_* environment variable; flags win.
package main

import (
	"fmt"
	"os"

	"github.com/ajroetker/go-bitonic/internal/config"
)

func main() {
	cfg, err := config.Default().FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
