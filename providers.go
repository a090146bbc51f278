// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package framehud

// SampleSource pulls the latest raw value for a named counter from the host
// profiling facility. The overlay calls Sample once per tracked marker per
// tick; an unsupported counter reports ok=false and is displayed as a
// placeholder, never treated as an error.
type SampleSource interface {
	Sample(name, category string) (value float64, ok bool)
}

// FrameTimingProvider reports per-frame durations. FrameTimings fills buf
// with the (CPU, GPU) millisecond pairs recorded since the previous call and
// returns how many were written; returning 0 means frame timing is
// unsupported on this platform, and the overlay falls back to wall-clock
// deltas with the GPU rate left unreported. RefreshRate returns the display's
// refresh rate in frames per second, or 0 when unknown.
type FrameTimingProvider interface {
	FrameTimings(buf []Timing) int
	RefreshRate() int
}

// MemoryProvider reports process memory usage and the platform memory limit,
// both in bytes. Either value may be unavailable; a zero or unavailable limit
// disables the memory-bar fill fraction but not the usage readout.
type MemoryProvider interface {
	UsedBytes() (uint64, bool)
	LimitBytes() (uint64, bool)
}

// QualitySource reports the host's current discrete quality-level index,
// used only for budget-table lookups.
type QualitySource interface {
	QualityLevel() int
}

// PoseProvider reports the camera pose the window placement follows. ok=false
// leaves the window where it is.
type PoseProvider interface {
	CameraPose() (Pose, bool)
}

// ToggleSource delivers external visibility toggle events (a voice command,
// a key binding; the overlay does not care how they are produced). Pending
// returns the number of toggle events since the last call; each one flips the
// visibility flag.
type ToggleSource interface {
	Pending() int
}
