// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "framehud [command] (flags)",
	Short: "framehud overlay simulation/introspection tool",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		simulateCmd,
	)

	simulateCmd.Flags().DurationVarP(
		&simulateConfig.duration, "duration", "d", 2*time.Second, "simulated wall time")
	simulateCmd.Flags().Float64Var(
		&simulateConfig.frameMillis, "frame-ms", 15, "baseline simulated frame time in milliseconds")
	simulateCmd.Flags().Float64Var(
		&simulateConfig.jitter, "jitter-ms", 2, "uniform frame time jitter in milliseconds")
	simulateCmd.Flags().IntVar(
		&simulateConfig.spikeEvery, "spike-every", 0,
		"inject a 3x frame time spike every N frames (0 disables)")
	simulateCmd.Flags().IntVar(
		&simulateConfig.refresh, "refresh", 60, "simulated display refresh rate")
	simulateCmd.Flags().Uint64Var(
		&simulateConfig.seed, "seed", 1, "pseudo-random seed for the workload")
	simulateCmd.Flags().BoolVar(
		&simulateConfig.plot, "plot", false, "plot the smoothed frame rate over time")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
