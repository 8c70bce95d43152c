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
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports sizes the network cannot sort: N or P
	// not a positive power of two, P > N, or P not dividing N.
	ErrInvalidConfiguration = errors.New("bitonic: invalid configuration")

	// ErrBarrierBroken reports that at least one worker failed to reach a
	// barrier, so the sort was abandoned.
	ErrBarrierBroken = errors.New("bitonic: barrier broken")

	// ErrBarrierTimeout is the cause recorded when a party gave up waiting.
	ErrBarrierTimeout = errors.New("bitonic: barrier wait timed out")
)

// ConfigError describes a rejected (N, P) pair.
type ConfigError struct {
	N, P   int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bitonic: invalid configuration (n=%d, p=%d): %s", e.N, e.P, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfiguration) hold for every ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

func invalid(n, p int, format string, args ...any) error {
	return &ConfigError{N: n, P: p, Reason: fmt.Sprintf(format, args...)}
}

// WorkerError is the failure of a single worker, typically a recovered panic
// inside its compare loop.
type WorkerError struct {
	ID     int
	Column Column
	Cause  error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("bitonic: worker %d failed at stage %d column %d: %v",
		e.ID, e.Column.Stage, e.Column.Distance, e.Cause)
}

func (e *WorkerError) Unwrap() error {
	return e.Cause
}
