// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package budget maps observed metric values against per-quality-level
// ceilings to pick a display color. Budgets never gate behavior; they exist
// purely for colorization.
package budget

import "github.com/framehud/framehud/internal/base"

// Unset marks a table entry with no budget enforced at that quality level.
const Unset = 0

// Table is an ordered mapping from a discrete quality-level index to a
// numeric ceiling. Indices beyond the table's length, and entries at or below
// Unset, mean "no budget enforced" and always yield the neutral color.
type Table []float64

// Lookup returns the ceiling for the given quality level, and whether one is
// enforced.
func (t Table) Lookup(level int) (float64, bool) {
	if level < 0 || level >= len(t) || t[level] <= Unset {
		return 0, false
	}
	return t[level], true
}

// Palette holds the three colors a budget comparison can resolve to.
type Palette struct {
	Neutral base.Color
	Within  base.Color
	Over    base.Color
}

// ColorFor classifies an observed value against the table at the given
// quality level. A value strictly above the ceiling is over budget; a value
// at or below it is within budget; an absent ceiling is neutral regardless of
// the value. Pure function, no state.
func ColorFor(t Table, level int, v float64, p Palette) base.Color {
	ceiling, ok := t.Lookup(level)
	if !ok {
		return p.Neutral
	}
	if v > ceiling {
		return p.Over
	}
	return p.Within
}

// TimeCeiling derives the effective ceiling for a time-based custom metric:
// a configured fraction of the target frame time. Computed fresh for every
// comparison because the target frame rate can change with the device.
func TimeCeiling(targetFrameMillis, fraction float64) float64 {
	return targetFrameMillis * fraction
}
