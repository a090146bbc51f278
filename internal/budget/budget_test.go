// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package budget

import (
	"testing"

	"github.com/framehud/framehud/internal/base"
	"github.com/stretchr/testify/require"
)

var testPalette = Palette{
	Neutral: base.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
	Within:  base.Color{R: 0, G: 1, B: 0, A: 1},
	Over:    base.Color{R: 1, G: 0, B: 0, A: 1},
}

func TestColorFor(t *testing.T) {
	table := Table{100, 200, 400}

	// A value exactly at the ceiling is within budget; only strictly above
	// is over.
	require.Equal(t, testPalette.Within, ColorFor(table, 1, 200, testPalette))
	require.Equal(t, testPalette.Over, ColorFor(table, 1, 201, testPalette))
	require.Equal(t, testPalette.Within, ColorFor(table, 0, 0, testPalette))

	// Quality levels without an entry are neutral regardless of the value.
	require.Equal(t, testPalette.Neutral, ColorFor(table, 3, 1e9, testPalette))
	require.Equal(t, testPalette.Neutral, ColorFor(table, -1, 1e9, testPalette))
	require.Equal(t, testPalette.Neutral, ColorFor(nil, 0, 1e9, testPalette))

	// Unset entries inside the table behave like absent ones.
	require.Equal(t, testPalette.Neutral, ColorFor(Table{0, 200}, 0, 50, testPalette))
}

func TestTimeCeiling(t *testing.T) {
	// 60fps target, 80% budget: 13.3ms of the 16.6ms frame.
	require.InDelta(t, 13.333, TimeCeiling(1000.0/60, 0.8), 0.001)
}
