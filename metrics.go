// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package framehud

import (
	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// GroupMetrics is a point-in-time snapshot of one tracked metric group.
type GroupMetrics struct {
	Name    string
	Unit    UnitKind
	Average float64
	// Active is false when none of the group's markers reported a value on
	// the last tick.
	Active bool
}

// Metrics is a point-in-time snapshot of the overlay's own state, for
// diagnostics and tests. Collecting it allocates; it is not meant for the
// per-tick path.
type Metrics struct {
	// CPUFrameRate and GPUFrameRate are the most recently flushed smoothed
	// rates. GPUFrameRate is -1 while the host has not reported GPU timing.
	CPUFrameRate    int
	GPUFrameRate    int
	TargetFrameRate int
	// MissedWindows counts flushed windows whose CPU rate fell below the
	// target.
	MissedWindows uint64

	MemoryUsed  uint64
	MemoryPeak  uint64
	MemoryLimit uint64

	Visible       bool
	RenderEnabled bool

	// Batch reports upload and draw counters from the instance buffer; zero
	// when rendering is disabled.
	Batch BatchStats

	Groups []GroupMetrics
}

// Metrics returns a snapshot of the overlay's state.
func (o *Overlay) Metrics() Metrics {
	m := Metrics{
		CPUFrameRate:    o.cpuRate,
		GPUFrameRate:    o.gpuRate,
		TargetFrameRate: o.targetRate,
		MissedWindows:   o.missed,
		MemoryUsed:      o.memUsed,
		MemoryPeak:      o.memPeak,
		MemoryLimit:     o.memLimit,
		Visible:         o.visible,
		RenderEnabled:   o.renderEnabled,
	}
	if o.win != nil {
		m.Batch = o.win.buf.Stats()
	}
	m.Groups = make([]GroupMetrics, 0, len(o.sceneStats)+len(o.customs))
	for _, g := range o.sceneStats {
		m.Groups = append(m.Groups, GroupMetrics{
			Name: g.Name(), Unit: g.Unit(), Average: g.Average(), Active: g.Active(),
		})
	}
	for _, g := range o.customs {
		m.Groups = append(m.Groups, GroupMetrics{
			Name: g.Name(), Unit: g.Unit(), Average: g.Average(), Active: g.Active(),
		})
	}
	return m
}

func (m Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// SafeFormat implements redact.SafeFormatter.
func (m Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("cpu: %dfps (target %dfps, %s missed)  gpu: ",
		redact.Safe(m.CPUFrameRate), redact.Safe(m.TargetFrameRate),
		crhumanize.Count(m.MissedWindows, crhumanize.Compact))
	if m.GPUFrameRate < 0 {
		w.SafeString("-.-")
	} else {
		w.Printf("%dfps", redact.Safe(m.GPUFrameRate))
	}
	w.Printf("\nmem: %s used, %s peak, %s limit",
		crhumanize.Bytes(m.MemoryUsed, crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Bytes(m.MemoryPeak, crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Bytes(m.MemoryLimit, crhumanize.Compact, crhumanize.OmitI))
	w.Printf("\nbatch: %s uploads, %s draws",
		crhumanize.Count(m.Batch.TransformUploads+m.Batch.ColorUploads+
			m.Batch.BaseColorUploads+m.Batch.UVUploads, crhumanize.Compact),
		crhumanize.Count(m.Batch.Draws, crhumanize.Compact))
	for i := range m.Groups {
		g := &m.Groups[i]
		if !g.Active {
			w.Printf("\n%s: inactive", redact.Safe(g.Name))
			continue
		}
		w.Printf("\n%s: %s (%s)", redact.Safe(g.Name),
			crhumanize.Float(g.Average, 2), redact.Safe(g.Unit.String()))
	}
}
