// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package batch owns the flat per-instance arrays behind the overlay's single
// draw submission. Components write individual instance records and mark only
// the arrays they touched; once per tick the dirty arrays (and only those)
// are handed to the rendering backend, followed by exactly one draw.
package batch

import (
	"github.com/cockroachdb/errors"
	"github.com/framehud/framehud/internal/base"
	"github.com/framehud/framehud/internal/invariants"
)

// BarSegments is the fixed number of memory-bar instances: used, peak and
// limit.
const BarSegments = 3

// Backend is the rendering collaborator. Upload calls receive the buffer's
// arrays by reference for the duration of the call; the backend must not
// retain them. Draw is issued exactly once per flush.
type Backend interface {
	UploadTransforms(t []base.Transform)
	UploadColors(c []base.Color)
	UploadBaseColors(c []base.Color)
	UploadUVRects(uv []base.UVRect)
	Draw(instances int)
}

type dirtyFlags uint8

const (
	dirtyTransforms dirtyFlags = 1 << iota
	dirtyColors
	dirtyBaseColors
	dirtyUVs
)

// Layout fixes the instance composition of one built window. The instance
// order is: one background plate, HistorySlots frame-history cells,
// BarSegments memory-bar segments, then GlyphCells text cells.
type Layout struct {
	HistorySlots int
	GlyphCells   int
}

// Stats counts backend traffic for the metrics snapshot.
type Stats struct {
	TransformUploads uint64
	ColorUploads     uint64
	BaseColorUploads uint64
	UVUploads        uint64
	Draws            uint64
}

// Buffer holds four parallel instance arrays sized once at window-build time.
// Rebuilding the window is the only operation permitted to resize them.
type Buffer struct {
	layout Layout

	transforms []base.Transform
	colors     []base.Color
	baseColors []base.Color
	uvs        []base.UVRect

	dirty dirtyFlags
	stats Stats
}

// NewBuffer allocates the arrays for the given layout. All arrays start
// dirty so the first flush uploads the complete window.
func NewBuffer(l Layout) (*Buffer, error) {
	if l.HistorySlots < 0 {
		return nil, errors.Errorf("framehud: history slot count %d must not be negative", l.HistorySlots)
	}
	if l.GlyphCells < 0 {
		return nil, errors.Errorf("framehud: glyph cell count %d must not be negative", l.GlyphCells)
	}
	n := 1 + l.HistorySlots + BarSegments + l.GlyphCells
	return &Buffer{
		layout:     l,
		transforms: make([]base.Transform, n),
		colors:     make([]base.Color, n),
		baseColors: make([]base.Color, n),
		uvs:        make([]base.UVRect, n),
		dirty:      dirtyTransforms | dirtyColors | dirtyBaseColors | dirtyUVs,
	}, nil
}

// Len returns the fixed instance count.
func (b *Buffer) Len() int { return len(b.transforms) }

// BackgroundIndex returns the background plate's instance index.
func (b *Buffer) BackgroundIndex() int { return 0 }

// HistoryIndex returns the instance index of frame-history cell i, where 0 is
// the newest cell.
func (b *Buffer) HistoryIndex(i int) int {
	invariants.CheckBounds(i, b.layout.HistorySlots)
	return 1 + i
}

// BarIndex returns the instance index of memory-bar segment i.
func (b *Buffer) BarIndex(i int) int {
	invariants.CheckBounds(i, BarSegments)
	return 1 + b.layout.HistorySlots + i
}

// GlyphBase returns the first text-cell instance index. Text slots reserve
// disjoint ranges starting here.
func (b *Buffer) GlyphBase() int { return 1 + b.layout.HistorySlots + BarSegments }

// SetTransform writes one instance transform and marks the transform array
// dirty. Implements glyph.InstanceWriter.
func (b *Buffer) SetTransform(i int, t base.Transform) {
	b.transforms[i] = t
	b.dirty |= dirtyTransforms
}

// SetUV writes one instance UV rectangle and marks the UV array dirty.
func (b *Buffer) SetUV(i int, uv base.UVRect) {
	b.uvs[i] = uv
	b.dirty |= dirtyUVs
}

// SetColor writes one instance tint and marks the color array dirty.
func (b *Buffer) SetColor(i int, c base.Color) {
	b.colors[i] = c
	b.dirty |= dirtyColors
}

// SetBaseColor writes one instance base/background color and marks the base
// color array dirty.
func (b *Buffer) SetBaseColor(i int, c base.Color) {
	b.baseColors[i] = c
	b.dirty |= dirtyBaseColors
}

// Color returns the current tint of instance i.
func (b *Buffer) Color(i int) base.Color { return b.colors[i] }

// UV returns the current UV rectangle of instance i.
func (b *Buffer) UV(i int) base.UVRect { return b.uvs[i] }

// Transform returns the current transform of instance i.
func (b *Buffer) Transform(i int) base.Transform { return b.transforms[i] }

// ShiftHistory advances the frame-history animation: cell i takes the color
// previously held by cell i-1, and cell 0 receives the new window's color.
// An explicit O(N) shift keeps the instance indices stable for rendering; N
// is bounded by the configured history length.
func (b *Buffer) ShiftHistory(newest base.Color) {
	n := b.layout.HistorySlots
	if n == 0 {
		return
	}
	first := b.HistoryIndex(0)
	for i := n - 1; i >= 1; i-- {
		b.colors[first+i] = b.colors[first+i-1]
	}
	b.colors[first] = newest
	b.dirty |= dirtyColors
}

// SetBarFill writes a bar segment's fill fraction into the spare SV channel
// of its UV rectangle.
func (b *Buffer) SetBarFill(segment int, fill float32) {
	idx := b.BarIndex(segment)
	b.uvs[idx].SV = fill
	b.dirty |= dirtyUVs
}

// Flush hands each dirty array (and only dirty arrays) to the backend,
// clears the dirty flags, and issues the tick's single draw.
func (b *Buffer) Flush(backend Backend) {
	if b.dirty&dirtyTransforms != 0 {
		backend.UploadTransforms(b.transforms)
		b.stats.TransformUploads++
	}
	if b.dirty&dirtyColors != 0 {
		backend.UploadColors(b.colors)
		b.stats.ColorUploads++
	}
	if b.dirty&dirtyBaseColors != 0 {
		backend.UploadBaseColors(b.baseColors)
		b.stats.BaseColorUploads++
	}
	if b.dirty&dirtyUVs != 0 {
		backend.UploadUVRects(b.uvs)
		b.stats.UVUploads++
	}
	b.dirty = 0
	backend.Draw(len(b.transforms))
	b.stats.Draws++
}

// Stats returns cumulative upload and draw counts.
func (b *Buffer) Stats() Stats { return b.stats }
