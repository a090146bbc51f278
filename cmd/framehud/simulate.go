// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/framehud/framehud"
)

var simulateConfig struct {
	duration    time.Duration
	frameMillis float64
	jitter      float64
	spikeEvery  int
	refresh     int
	seed        uint64
	plot        bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "run the overlay against a synthetic workload",
	Long: `
Runs the overlay headlessly against a synthetic frame loop and prints the
resulting metrics, for eyeballing smoothing, budget colorization thresholds
and change-gating behavior without an engine embedding.
	`,
	Args: cobra.ExactArgs(0),
	RunE: runSimulate,
}

// simWorkload produces correlated frame timings, scene statistics and memory
// usage for a pretend scene.
type simWorkload struct {
	rng     *rand.Rand
	frame   int
	nextCPU float64
	nextGPU float64
	memUsed uint64
}

func newSimWorkload(seed uint64) *simWorkload {
	return &simWorkload{
		rng:     rand.New(rand.NewPCG(seed, seed)),
		memUsed: 256 << 20,
	}
}

func (w *simWorkload) step() {
	w.frame++
	cfg := &simulateConfig
	w.nextCPU = cfg.frameMillis + (w.rng.Float64()*2-1)*cfg.jitter
	if cfg.spikeEvery > 0 && w.frame%cfg.spikeEvery == 0 {
		w.nextCPU *= 3
	}
	w.nextGPU = w.nextCPU * (0.8 + 0.2*w.rng.Float64())
	// Memory drifts upward with occasional collections.
	w.memUsed += uint64(w.rng.Int64N(1 << 20))
	if w.rng.Int64N(300) == 0 {
		w.memUsed = 256 << 20
	}
}

func (w *simWorkload) FrameTimings(buf []framehud.Timing) int {
	if len(buf) == 0 {
		return 0
	}
	buf[0] = framehud.Timing{CPUMillis: w.nextCPU, GPUMillis: w.nextGPU}
	return 1
}

func (w *simWorkload) RefreshRate() int { return simulateConfig.refresh }

func (w *simWorkload) Sample(name, category string) (float64, bool) {
	switch name {
	case framehud.MarkerBatches:
		return 40 + w.rng.Float64()*10, true
	case framehud.MarkerDrawCalls:
		return 90 + w.rng.Float64()*40, true
	case framehud.MarkerVertices:
		return 800_000 + w.rng.Float64()*200_000, true
	case framehud.MarkerTriangles:
		return 400_000 + w.rng.Float64()*100_000, true
	}
	return 0, false
}

func (w *simWorkload) UsedBytes() (uint64, bool)  { return w.memUsed, true }
func (w *simWorkload) LimitBytes() (uint64, bool) { return 2 << 30, true }

// countingBackend tallies uploads and draws without rendering anything.
type countingBackend struct {
	uploads int
	draws   int
}

func (b *countingBackend) UploadTransforms(t []framehud.Transform) { b.uploads++ }
func (b *countingBackend) UploadColors(c []framehud.Color)         { b.uploads++ }
func (b *countingBackend) UploadBaseColors(c []framehud.Color)     { b.uploads++ }
func (b *countingBackend) UploadUVRects(uv []framehud.UVRect)      { b.uploads++ }
func (b *countingBackend) Draw(instances int)                      { b.draws++ }

func runSimulate(cmd *cobra.Command, args []string) error {
	workload := newSimWorkload(simulateConfig.seed)
	backend := &countingBackend{}

	overlay, err := framehud.Open(framehud.Options{
		Atlas: &framehud.Atlas{
			CellWidth: 8, CellHeight: 16, Columns: 16,
			FirstChar: ' ', LastChar: '~',
		},
		Backend:      backend,
		Samples:      workload,
		FrameTimings: workload,
		Memory:       workload,
		Budgets: framehud.Budgets{
			DrawCalls: framehud.BudgetTable{100},
			Triangles: framehud.BudgetTable{500_000},
		},
	})
	if err != nil {
		return err
	}
	defer overlay.Close()

	frames := int(float64(simulateConfig.duration) /
		(simulateConfig.frameMillis * float64(time.Millisecond)))
	series := make([]float64, 0, frames)
	for i := 0; i < frames; i++ {
		workload.step()
		overlay.Tick()
		if rate := overlay.Metrics().CPUFrameRate; rate > 0 {
			series = append(series, float64(rate))
		}
	}

	m := overlay.Metrics()
	fmt.Printf("%s\n\n", m)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"group", "unit", "average", "active"})
	for _, g := range m.Groups {
		table.Append([]string{
			g.Name, g.Unit.String(),
			fmt.Sprintf("%.1f", g.Average),
			fmt.Sprintf("%t", g.Active),
		})
	}
	table.Append([]string{"uploads", "count", fmt.Sprintf("%d", backend.uploads), "true"})
	table.Append([]string{"draws", "count", fmt.Sprintf("%d", backend.draws), "true"})
	table.Render()

	if simulateConfig.plot && len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Caption("smoothed cpu frame rate (fps)")))
	}
	return nil
}
