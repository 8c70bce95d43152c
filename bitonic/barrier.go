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
	"sync"
	"time"
)

// Barrier is a reusable rendezvous for a fixed number of parties.
//
// Each round (generation) releases all parties at once when the last one
// arrives, then the barrier is ready for the next round. A barrier can be
// broken by Break or by a timed-out AwaitTimeout; once broken, every waiting
// and every future caller fails with an error matching ErrBarrierBroken.
type Barrier struct {
	mu      sync.Mutex
	parties int
	arrived int
	gen     uint64
	// release is closed when the current generation trips or the barrier
	// breaks. A fresh channel is installed for each generation.
	release chan struct{}
	cause   error
}

// NewBarrier returns a barrier for parties participants.
// It panics if parties <= 0.
func NewBarrier(parties int) *Barrier {
	if parties <= 0 {
		panic("bitonic: barrier parties must be > 0")
	}
	return &Barrier{
		parties: parties,
		release: make(chan struct{}),
	}
}

// Parties returns the number of parties required to trip the barrier.
func (b *Barrier) Parties() int {
	return b.parties
}

// Generation returns the number of rounds completed so far.
func (b *Barrier) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen
}

// Broken reports whether the barrier has been broken.
func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cause != nil
}

// Err returns nil while the barrier is intact, or the error waiters observe
// once it is broken.
func (b *Barrier) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errLocked()
}

// Await blocks until all parties have called Await for the current round.
func (b *Barrier) Await() error {
	return b.await(0)
}

// AwaitTimeout is Await with a bound on the wait. A party that is not
// released within d breaks the barrier with ErrBarrierTimeout, releasing
// every other waiter with the same failure. d <= 0 waits forever.
func (b *Barrier) AwaitTimeout(d time.Duration) error {
	return b.await(d)
}

// Break poisons the barrier with cause. Only the first cause is kept.
func (b *Barrier) Break(cause error) {
	if cause == nil {
		cause = ErrBarrierBroken
	}
	b.mu.Lock()
	b.breakLocked(cause)
	b.mu.Unlock()
}

func (b *Barrier) await(d time.Duration) error {
	b.mu.Lock()
	if b.cause != nil {
		err := b.errLocked()
		b.mu.Unlock()
		return err
	}
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.gen++
		close(b.release)
		b.release = make(chan struct{})
		b.mu.Unlock()
		return nil
	}
	gen, release := b.gen, b.release
	b.mu.Unlock()

	if d <= 0 {
		<-release
	} else {
		timer := time.NewTimer(d)
		select {
		case <-release:
			timer.Stop()
		case <-timer.C:
			b.mu.Lock()
			if b.gen == gen {
				b.breakLocked(ErrBarrierTimeout)
			}
			b.mu.Unlock()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		// Our round tripped, even if the barrier broke afterwards.
		return nil
	}
	return b.errLocked()
}

func (b *Barrier) breakLocked(cause error) {
	if b.cause != nil {
		return
	}
	b.cause = cause
	close(b.release)
}

func (b *Barrier) errLocked() error {
	if b.cause == nil {
		return nil
	}
	if b.cause == ErrBarrierBroken {
		return b.cause
	}
	return fmt.Errorf("%w: %w", ErrBarrierBroken, b.cause)
}
