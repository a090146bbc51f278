// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hostprobe

import (
	"runtime"
	"testing"
	"time"

	"github.com/framehud/framehud"
	"github.com/stretchr/testify/require"
)

func TestRuntimeMemory(t *testing.T) {
	m := NewRuntimeMemory(0)
	used, ok := m.UsedBytes()
	require.True(t, ok)
	require.NotZero(t, used)

	// Cached within the refresh interval.
	again, ok := m.UsedBytes()
	require.True(t, ok)
	require.Equal(t, used, again)
}

func TestProcMemory(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("procfs is linux only")
	}
	m, err := NewProcMemory(0)
	require.NoError(t, err)

	used, ok := m.UsedBytes()
	require.True(t, ok)
	require.NotZero(t, used)

	limit, ok := m.LimitBytes()
	require.True(t, ok)
	require.Greater(t, limit, used)
}

func TestWallClock(t *testing.T) {
	w := &WallClock{Refresh: 90}
	require.Equal(t, 90, w.RefreshRate())

	var buf [4]framehud.Timing

	// The first call only establishes the reference point.
	require.Zero(t, w.FrameTimings(buf[:]))

	time.Sleep(5 * time.Millisecond)
	n := w.FrameTimings(buf[:])
	require.Equal(t, 1, n)
	require.Greater(t, buf[0].CPUMillis, 0.0)
	require.Equal(t, -1.0, buf[0].GPUMillis)
}

func TestStaticSources(t *testing.T) {
	require.Equal(t, 3, StaticQuality{Level: 3}.QualityLevel())

	pose := framehud.Pose{Position: framehud.Vec3{X: 1}, Forward: framehud.Vec3{Z: 1}}
	got, ok := StaticPose{Pose: pose}.CameraPose()
	require.True(t, ok)
	require.Equal(t, pose, got)
}
