// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package metric

import (
	"math/rand/v2"
	"testing"

	"github.com/framehud/framehud/internal/base"
	"github.com/stretchr/testify/require"
)

func TestGroupRunningSum(t *testing.T) {
	// For any sequence of pushes, the running sum must match the sum of the
	// C most recent samples (or all samples, before the ring first fills).
	for _, capacity := range []int{1, 2, 7, 32} {
		g, err := NewGroup("test", base.UnitCount, capacity, nil)
		require.NoError(t, err)
		g.SetActive(true)

		var pushed []float64
		for i := 0; i < 200; i++ {
			v := rand.Float64()*1000 - 500
			g.Push(v)
			pushed = append(pushed, v)

			window := pushed
			if len(window) > capacity {
				window = window[len(window)-capacity:]
			}
			var want float64
			for _, w := range window {
				want += w
			}
			require.InDelta(t, want/float64(capacity), g.Average(), 1e-6)
		}
	}
}

func TestGroupReadyToPresent(t *testing.T) {
	g, err := NewGroup("test", base.UnitTime, 3, nil)
	require.NoError(t, err)

	// A never-presented group is ready immediately, even before the first
	// push.
	require.True(t, g.ReadyToPresent())
	g.Push(1)
	require.True(t, g.ReadyToPresent())

	// Once a value has been shown, readiness requires a full ring.
	g.MarkPresented(1)
	require.False(t, g.ReadyToPresent())
	g.Push(2)
	require.False(t, g.ReadyToPresent())
	g.Push(3)
	require.True(t, g.ReadyToPresent())

	// The ring stays full from here on.
	g.Push(4)
	require.True(t, g.ReadyToPresent())
}

func TestGroupInactiveAveragesZero(t *testing.T) {
	g, err := NewGroup("test", base.UnitCount, 4, nil)
	require.NoError(t, err)
	g.SetActive(true)
	g.Push(10)
	g.Push(10)
	require.Equal(t, 5.0, g.Average())

	g.SetActive(false)
	require.Equal(t, 0.0, g.Average())
}

func TestGroupReset(t *testing.T) {
	g, err := NewGroup("test", base.UnitCount, 2, nil)
	require.NoError(t, err)
	g.SetActive(true)
	g.Push(5)
	g.Push(7)
	g.MarkPresented(6)

	g.Reset()
	require.Equal(t, 0.0, g.Average())
	require.True(t, g.ReadyToPresent())
	_, presented := g.LastDisplayed()
	require.False(t, presented)
	require.Equal(t, 2, g.Capacity())
}

func TestGroupInvalidConfig(t *testing.T) {
	_, err := NewGroup("", base.UnitCount, 4, nil)
	require.Error(t, err)

	_, err = NewGroup("test", base.UnitCount, 0, nil)
	require.Error(t, err)

	_, err = NewGroup("test", base.UnitCount, -1, nil)
	require.Error(t, err)

	_, err = NewGroup("test", base.UnitCount, 4, []Marker{{Name: ""}})
	require.Error(t, err)
}
