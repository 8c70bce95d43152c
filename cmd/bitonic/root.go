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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-bitonic/internal/config"
	"github.com/ajroetker/go-bitonic/internal/cpuinfo"
	"github.com/ajroetker/go-bitonic/internal/driver"
)

// newRootCmd builds the command tree. cfg supplies the flag defaults, so the
// environment has already been applied to it.
func newRootCmd(cfg config.Config) *cobra.Command {
	var (
		logLevel = cfg.LogLevel.String()
		quiet    bool
		jsonLogs bool
	)

	cmd := &cobra.Command{
		Use:   "bitonic [P [GRANULARITY]]",
		Short: "Benchmark a barrier-synchronized parallel bitonic sort",
		Long: `bitonic sorts arrays of 2^log2n random 32-bit integers with a bitonic
sorting network run by P workers that meet at a barrier after every network
column, and reports how many arrays were sorted within the time budget.

P and GRANULARITY may also be given positionally.
P must be a power of two no larger than 2^log2n; GRANULARITY must be 1.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyArgs(&cfg, cmd.Flags(), args); err != nil {
				return err
			}
			lvl, err := config.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			cfg.LogLevel = lvl

			logger := newLogger(cmd, cfg.LogLevel, jsonLogs)
			sink := driver.Sink(driver.TextSink{W: cmd.OutOrStdout(), Quiet: quiet})
			if cfg.LogLevel <= slog.LevelDebug {
				sink = driver.MultiSink{sink, driver.LogSink{Logger: logger}}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			_, err = driver.Run(ctx, cfg, sink, logger)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVarP(&cfg.Workers, "workers", "p", cfg.Workers, "number of sort workers (power of two)")
	f.IntVar(&cfg.Granularity, "granularity", cfg.Granularity, "network columns per barrier (only 1 is supported)")
	f.IntVar(&cfg.Log2N, "log2n", cfg.Log2N, "log2 of the number of elements per array")
	f.DurationVar(&cfg.Duration, "duration", cfg.Duration, "time budget for the repeat loop")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random fill seed (0 picks one)")
	f.BoolVar(&cfg.Verify, "verify", cfg.Verify, "verify every sorted array")
	f.BoolVar(&cfg.UsePool, "pool", cfg.UsePool, "run sort workers on a persistent worker pool")
	f.DurationVar(&cfg.BarrierTimeout, "barrier-timeout", cfg.BarrierTimeout, "fail the sort if a barrier wait exceeds this (0 waits forever)")
	f.StringVar(&logLevel, "log-level", logLevel, "log level: debug, info, warn or error")
	f.BoolVar(&jsonLogs, "json-logs", false, "emit logs as JSON")
	f.BoolVarP(&quiet, "quiet", "q", false, "do not print a line per verified array")

	cmd.AddCommand(newCPUCmd())
	return cmd
}

// applyArgs lets positional P and GRANULARITY override the flags. When
// neither P nor --workers was given, the detected default is capped at the
// element count so small arrays still validate.
func applyArgs(cfg *config.Config, flags *pflag.FlagSet, args []string) error {
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid P %q: %w", args[0], err)
		}
		cfg.Workers = p
	} else if !flags.Changed("workers") {
		cfg.Workers = min(cfg.Workers, cfg.N())
	}
	if len(args) > 1 {
		g, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid GRANULARITY %q: %w", args[1], err)
		}
		cfg.Granularity = g
	}
	return nil
}

func newLogger(cmd *cobra.Command, lvl slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), opts))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
}

func newCPUCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpu",
		Short: "Print the detected CPU and the default worker count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cpuinfo.Detect().String())
			return nil
		},
	}
}

