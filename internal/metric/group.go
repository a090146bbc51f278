// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package metric

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/framehud/framehud/internal/base"
	"github.com/framehud/framehud/internal/invariants"
)

// CombineRule tells the sampler how a marker's value folds into its group's
// per-tick sample. A group with one Add marker and one Subtract marker tracks
// "A minus B".
type CombineRule uint8

const (
	// Add contributes the marker's value positively.
	Add CombineRule = iota
	// Subtract contributes the marker's value negatively.
	Subtract
)

// Marker names one host profiling counter feeding a group.
type Marker struct {
	Name     string
	Category string
	Rule     CombineRule
}

// Group is a named, ring-buffered counter tracked for display. Samples are
// held in a fixed-capacity ring with a running sum, so pushing a sample and
// computing the windowed average are both O(1) regardless of capacity.
//
// The ring never grows after construction. The running sum always equals the
// arithmetic sum of the ring's contents (checked under the invariants tag).
type Group struct {
	name    string
	unit    base.UnitKind
	markers []Marker

	samples []float64
	head    int
	filled  bool
	sum     float64

	// active is false when none of the group's markers produced a sample on
	// the most recent tick; an inactive group averages to zero.
	active bool

	// presented is set once the group's value has been displayed. It gates
	// ReadyToPresent so a brand-new group shows a first, possibly noisy,
	// value immediately instead of waiting a full window.
	presented   bool
	lastDisplay float64
}

// NewGroup constructs a tracked metric group. The sample capacity is fixed
// for the group's lifetime; zero or negative capacities and empty names are
// configuration errors.
func NewGroup(name string, unit base.UnitKind, capacity int, markers []Marker) (*Group, error) {
	if name == "" {
		return nil, errors.New("framehud: metric group name must not be empty")
	}
	if capacity <= 0 {
		return nil, errors.Errorf("framehud: metric group %q: sample capacity must be positive (got %d)", name, capacity)
	}
	for i := range markers {
		if markers[i].Name == "" {
			return nil, errors.Errorf("framehud: metric group %q: marker %d has an empty name", name, i)
		}
	}
	return &Group{
		name:    name,
		unit:    unit,
		markers: markers,
		samples: make([]float64, capacity),
	}, nil
}

// Name returns the display name of the group.
func (g *Group) Name() string { return g.name }

// Unit returns the group's unit kind.
func (g *Group) Unit() base.UnitKind { return g.unit }

// Markers returns the host counters feeding this group. The returned slice
// must not be mutated.
func (g *Group) Markers() []Marker { return g.markers }

// Capacity returns the fixed ring capacity.
func (g *Group) Capacity() int { return len(g.samples) }

// Push inserts one combined sample, evicting the oldest if the ring is full.
// The running sum is maintained incrementally: sum += sample - evicted.
func (g *Group) Push(v float64) {
	if g.filled {
		g.sum += v - g.samples[g.head]
	} else {
		g.sum += v
	}
	g.samples[g.head] = v
	g.head++
	if g.head == len(g.samples) {
		g.head = 0
		g.filled = true
	}
	if invariants.Enabled {
		g.checkSum()
	}
}

// SetActive records whether any of the group's markers reported a value on
// the current tick.
func (g *Group) SetActive(active bool) { g.active = active }

// Active reports whether the group received marker data on the last tick.
func (g *Group) Active() bool { return g.active }

// Average returns the windowed average: the running sum divided by the ring
// capacity. An inactive group reports 0.
func (g *Group) Average() float64 {
	if !g.active {
		return 0
	}
	return g.sum / float64(len(g.samples))
}

// ReadyToPresent reports whether the group's average is stable enough to
// display: either the ring has filled at least once, or the group has never
// presented a value (the first sample is shown immediately).
func (g *Group) ReadyToPresent() bool {
	return g.filled || !g.presented
}

// MarkPresented records the value that was actually displayed.
func (g *Group) MarkPresented(display float64) {
	g.presented = true
	g.lastDisplay = display
}

// LastDisplayed returns the most recently displayed value, and whether the
// group has presented at all.
func (g *Group) LastDisplayed() (float64, bool) {
	return g.lastDisplay, g.presented
}

// Reset discards all samples and display state, keeping the configuration
// (name, unit, capacity, markers). Used when the overlay re-baselines.
func (g *Group) Reset() {
	for i := range g.samples {
		g.samples[i] = 0
	}
	g.head = 0
	g.filled = false
	g.sum = 0
	g.active = false
	g.presented = false
	g.lastDisplay = 0
}

// checkSum verifies the running sum against the ring contents. Invariant
// builds only; float accumulation drift is tolerated up to a small epsilon.
func (g *Group) checkSum() {
	var s float64
	n := g.head
	if g.filled {
		n = len(g.samples)
	}
	for i := 0; i < n; i++ {
		s += g.samples[i]
	}
	if d := math.Abs(s - g.sum); d > 1e-6*(1+math.Abs(s)) {
		panic(errors.AssertionFailedf("running sum %v diverged from ring sum %v", g.sum, s))
	}
}
