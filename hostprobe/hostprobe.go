// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package hostprobe provides ready-made provider implementations for hosts
// without an engine-level profiling facility: Go-runtime and /proc based
// memory probes, a wall-clock frame timing source, and fixed-value quality
// and pose sources for headless or test embeddings.
package hostprobe

import "github.com/framehud/framehud"

// StaticQuality reports a fixed quality level.
type StaticQuality struct {
	Level int
}

// QualityLevel implements framehud.QualitySource.
func (s StaticQuality) QualityLevel() int { return s.Level }

// StaticPose reports a fixed camera pose, pinning the overlay window in
// place.
type StaticPose struct {
	Pose framehud.Pose
}

// CameraPose implements framehud.PoseProvider.
func (s StaticPose) CameraPose() (framehud.Pose, bool) { return s.Pose, true }
