// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hostprobe

import (
	"time"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/framehud/framehud"
)

// WallClock is a frame timing provider for hosts without engine-level frame
// instrumentation: each call reports one frame whose CPU time is the
// wall-clock delta since the previous call. GPU time is never reported.
type WallClock struct {
	// Refresh is the display refresh rate reported to the overlay; zero
	// means unknown.
	Refresh int

	last crtime.Mono
}

// FrameTimings implements framehud.FrameTimingProvider.
func (w *WallClock) FrameTimings(buf []framehud.Timing) int {
	now := crtime.NowMono()
	prev := w.last
	w.last = now
	if prev == 0 || len(buf) == 0 {
		return 0
	}
	buf[0] = framehud.Timing{
		CPUMillis: float64(now.Sub(prev)) / float64(time.Millisecond),
		GPUMillis: -1,
	}
	return 1
}

// RefreshRate implements framehud.FrameTimingProvider.
func (w *WallClock) RefreshRate() int { return w.Refresh }
