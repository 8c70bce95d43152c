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

package driver

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Report summarizes a run.
type Report struct {
	N        int
	Workers  int
	Section  int
	Count    int
	Failures int
	Elapsed  time.Duration
}

// String renders the report in the benchmark's summary line format.
func (r Report) String() string {
	return fmt.Sprintf("Sorted %d arrays (each: %d elements) in %d ms using %d threads",
		r.Count, r.N, r.Elapsed.Milliseconds(), r.Workers)
}

// Throughput returns sorted arrays per second.
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Count) / r.Elapsed.Seconds()
}

// Sink receives the progress of a run. The sorter itself never writes
// output; everything a user sees goes through a Sink.
type Sink interface {
	// Section is called once before the first round.
	Section(n, section int)
	// Verified is called after each verified round.
	Verified(round int, ok bool)
	// Done is called once with the final report.
	Done(r Report)
}

// TextSink writes the benchmark's plain text lines to W.
type TextSink struct {
	W io.Writer
	// Quiet suppresses the per-round lines.
	Quiet bool
}

func (s TextSink) Section(n, section int) {
	fmt.Fprintf(s.W, "Each thread processes: %d data\n", section)
}

func (s TextSink) Verified(round int, ok bool) {
	if s.Quiet {
		return
	}
	if ok {
		fmt.Fprintf(s.W, "%d verified to be sorted\n", round)
	} else {
		fmt.Fprintf(s.W, "%d sort failed\n", round)
	}
}

func (s TextSink) Done(r Report) {
	fmt.Fprintln(s.W, r.String())
}

// LogSink emits structured records instead of text lines.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Section(n, section int) {
	s.Logger.Info("run starting", "n", n, "section", section)
}

func (s LogSink) Verified(round int, ok bool) {
	if ok {
		s.Logger.Debug("round verified", "round", round)
		return
	}
	s.Logger.Warn("round failed verification", "round", round)
}

func (s LogSink) Done(r Report) {
	s.Logger.Info("run finished",
		"count", r.Count,
		"failures", r.Failures,
		"n", r.N,
		"workers", r.Workers,
		"elapsed_ms", r.Elapsed.Milliseconds(),
		"arrays_per_sec", r.Throughput())
}

// MultiSink fans every call out to each of its sinks in order.
type MultiSink []Sink

func (m MultiSink) Section(n, section int) {
	for _, s := range m {
		s.Section(n, section)
	}
}

func (m MultiSink) Verified(round int, ok bool) {
	for _, s := range m {
		s.Verified(round, ok)
	}
}

func (m MultiSink) Done(r Report) {
	for _, s := range m {
		s.Done(r)
	}
}
