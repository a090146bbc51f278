// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package frametime derives a smoothed, displayable frame rate from raw
// per-frame durations. Raw durations are noisy; rather than displaying the
// reciprocal of a single frame time, the smoother accumulates durations over
// a configured window and flushes one rate per window.
package frametime

import (
	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
)

// Timing is one frame's measured durations in milliseconds, as reported by
// the host. A negative GPUMillis means the GPU duration was not reported.
type Timing struct {
	CPUMillis float64
	GPUMillis float64
}

// Report is the result of one Tick. CPURate, GPURate and Missed are only
// meaningful when Flushed is true. GPURate is -1 when no GPU duration was
// recorded during the window.
type Report struct {
	Flushed     bool
	CPURate     int
	GPURate     int
	Missed      bool
	DeltaMillis float64
}

// Smoother accumulates per-frame durations and flushes a smoothed frame rate
// each time the accumulated CPU time crosses the window threshold. It has two
// states, accumulating and (transiently) flushed; a flush zeroes the
// accumulators and immediately re-enters accumulation.
type Smoother struct {
	windowMillis float64
	defaultRate  int
	maxRate      int

	cpuMillis float64
	gpuMillis float64
	gpuSeen   bool
	frames    int

	lastMono crtime.Mono
	nowMono  func() crtime.Mono
}

// NewSmoother constructs a smoother flushing every windowMillis of
// accumulated CPU time. defaultRate is the target frame rate assumed when the
// host reports an unknown (zero) refresh rate; maxRate clamps the displayed
// rate.
func NewSmoother(windowMillis float64, defaultRate, maxRate int) (*Smoother, error) {
	if windowMillis <= 0 {
		return nil, errors.Errorf("framehud: frame sample window must be positive (got %v)", windowMillis)
	}
	if defaultRate <= 0 {
		return nil, errors.Errorf("framehud: default frame rate must be positive (got %d)", defaultRate)
	}
	if maxRate < defaultRate {
		return nil, errors.Errorf("framehud: max displayed frame rate %d is below the default rate %d", maxRate, defaultRate)
	}
	return &Smoother{
		windowMillis: windowMillis,
		defaultRate:  defaultRate,
		maxRate:      maxRate,
		nowMono:      crtime.NowMono,
	}, nil
}

// Tick folds the host-reported frame timings into the current window and
// flushes if the window threshold was crossed. An empty timings slice means
// the platform cannot report frame durations; the smoother then falls back to
// the wall-clock delta since the previous tick, with the GPU rate left
// unreported. targetRate is the device refresh rate, or zero if unknown.
func (s *Smoother) Tick(timings []Timing, targetRate int) Report {
	var r Report
	if len(timings) == 0 {
		now := s.nowMono()
		if s.lastMono != 0 {
			delta := float64(now.Sub(s.lastMono)) / 1e6
			s.cpuMillis += delta
			s.frames++
			r.DeltaMillis = delta
		}
		s.lastMono = now
	} else {
		for i := range timings {
			s.cpuMillis += timings[i].CPUMillis
			r.DeltaMillis += timings[i].CPUMillis
			if timings[i].GPUMillis >= 0 {
				s.gpuMillis += timings[i].GPUMillis
				s.gpuSeen = true
			}
		}
		s.frames += len(timings)
		// Keep the wall clock current so a platform that loses timing
		// support mid-run does not see one giant fallback delta.
		s.lastMono = s.nowMono()
	}

	if s.cpuMillis < s.windowMillis || s.frames == 0 {
		return r
	}

	r.Flushed = true
	r.CPURate = s.rate(s.cpuMillis)
	r.GPURate = -1
	if s.gpuSeen {
		r.GPURate = s.rate(s.gpuMillis)
	}
	if targetRate <= 0 {
		targetRate = s.defaultRate
	}
	// The -1 tolerance absorbs integer rounding: a window running exactly at
	// target must never classify as missed.
	r.Missed = r.CPURate < targetRate-1

	s.cpuMillis = 0
	s.gpuMillis = 0
	s.gpuSeen = false
	s.frames = 0
	return r
}

// rate converts accumulated milliseconds over the window's frame count into a
// rounded frames-per-second value clamped to [0, maxRate].
func (s *Smoother) rate(accumMillis float64) int {
	perFrameSeconds := accumMillis / 1e3 / float64(s.frames)
	fps := 0.0
	if perFrameSeconds > 0 {
		fps = 1 / perFrameSeconds
	}
	rounded := int(fps + 0.5)
	if rounded < 0 {
		rounded = 0
	}
	if rounded > s.maxRate {
		rounded = s.maxRate
	}
	return rounded
}

// Reset discards the current window. The wall-clock reference survives so the
// first post-reset fallback delta stays sane.
func (s *Smoother) Reset() {
	s.cpuMillis = 0
	s.gpuMillis = 0
	s.gpuSeen = false
	s.frames = 0
}
