// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package base

// Color is a normalized RGBA tint for one draw instance.
type Color struct {
	R, G, B, A float32
}

// Transform is the 2D local transform of one instance quad: a translation and
// a scale in window units. The overlay only ever draws axis-aligned quads, so
// no rotation component is carried per instance; orienting the window as a
// whole is the backend's concern.
type Transform struct {
	X, Y   float32
	SX, SY float32
}

// UVRect addresses a rectangle of the glyph atlas: offset and scale in
// normalized texture coordinates. For bar-graph instances the SV channel is
// repurposed to carry the fill fraction, since bars sample a solid texel and
// do not need a vertical scale.
type UVRect struct {
	U, V   float32
	SU, SV float32
}

// Vec3 is a position or direction in host world space. It only appears on the
// window-placement path; the metrics core never touches it.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Lerp returns v interpolated toward w by t, with t clamped to [0, 1].
func (v Vec3) Lerp(w Vec3, t float32) Vec3 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Vec3{
		v.X + (w.X-v.X)*t,
		v.Y + (w.Y-v.Y)*t,
		v.Z + (w.Z-v.Z)*t,
	}
}

// Pose is a camera (or window) pose reported by the host: a position, a view
// direction, and a vertical field of view in degrees.
type Pose struct {
	Position Vec3
	Forward  Vec3
	Up       Vec3
	FOV      float32
}
