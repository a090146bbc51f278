// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package glyph lays text out over a monospace glyph atlas. A slot is a
// fixed-capacity, fixed-position run of character cells; writing a value into
// a slot touches only the cells that actually change, never the slot's full
// capacity.
package glyph

import (
	"github.com/cockroachdb/errors"
	"github.com/framehud/framehud/internal/base"
	"github.com/framehud/framehud/internal/invariants"
)

// Atlas describes a monospace glyph atlas texture: a grid of equally sized
// character cells covering a contiguous code range that starts at the space
// character.
type Atlas struct {
	// CellWidth and CellHeight are the pixel dimensions of one character
	// cell.
	CellWidth  int
	CellHeight int
	// Columns is the number of cells per atlas row.
	Columns int
	// FirstChar and LastChar bound the contiguous character range. FirstChar
	// is the space character; codes outside the range render as spaces.
	FirstChar byte
	LastChar  byte
}

// Validate checks the atlas description.
func (a *Atlas) Validate() error {
	if a.CellWidth <= 0 || a.CellHeight <= 0 {
		return errors.Errorf("framehud: atlas cell size %dx%d must be positive", a.CellWidth, a.CellHeight)
	}
	if a.Columns <= 0 {
		return errors.Errorf("framehud: atlas column count %d must be positive", a.Columns)
	}
	if a.FirstChar != ' ' {
		return errors.Errorf("framehud: atlas character range must start at the space character (got %q)", a.FirstChar)
	}
	if a.LastChar < a.FirstChar {
		return errors.Errorf("framehud: atlas character range [%q, %q] is empty", a.FirstChar, a.LastChar)
	}
	return nil
}

// rows returns the number of atlas rows needed to hold the character range.
func (a *Atlas) rows() int {
	return (int(a.LastChar-a.FirstChar) + a.Columns) / a.Columns
}

// UVFor returns the normalized atlas rectangle for ch. The cell is located by
// integer division of the code-point offset by the column count (row) and
// modulo (column). Characters outside the range map to the space cell.
func (a *Atlas) UVFor(ch byte) base.UVRect {
	if ch < a.FirstChar || ch > a.LastChar {
		ch = a.FirstChar
	}
	idx := int(ch - a.FirstChar)
	su := 1 / float32(a.Columns)
	sv := 1 / float32(a.rows())
	return base.UVRect{
		U:  float32(idx%a.Columns) * su,
		V:  float32(idx/a.Columns) * sv,
		SU: su,
		SV: sv,
	}
}

// Align selects which way a slot's cells grow from its anchor.
type Align uint8

const (
	// AlignLeft grows rightward from the anchor.
	AlignLeft Align = iota
	// AlignRight grows leftward from the anchor.
	AlignRight
)

// InstanceWriter receives individual instance-record writes. The batch buffer
// implements it; each write marks the touched array dirty.
type InstanceWriter interface {
	SetTransform(i int, t base.Transform)
	SetUV(i int, uv base.UVRect)
	SetColor(i int, c base.Color)
}

// SlotConfig describes one text slot at window-build time.
type SlotConfig struct {
	// Prefix is a literal written once at layout, occupying the slot's
	// leading cells; value writes never touch it.
	Prefix string
	// AnchorX, AnchorY position the slot in window units. For a left-aligned
	// slot the anchor is the left edge of the first cell; for a right-aligned
	// slot it is the right edge of the last cell.
	AnchorX, AnchorY float32
	Align            Align
	// Offset is the slot's first index in the instance arrays.
	Offset int
	// MaxGlyphs is the slot's total cell capacity, prefix included.
	MaxGlyphs int
	// CellWidth, CellHeight are the cell dimensions in window units.
	CellWidth, CellHeight float32
}

// Slot is a fixed run of character cells holding one displayed value plus its
// literal prefix. Built once per window layout; value writes mutate only the
// trailing value cells.
type Slot struct {
	cfg     SlotConfig
	lastLen int
}

// NewSlot validates the configuration and returns the slot.
func NewSlot(cfg SlotConfig) (*Slot, error) {
	if cfg.MaxGlyphs <= 0 {
		return nil, errors.Errorf("framehud: text slot capacity %d must be positive", cfg.MaxGlyphs)
	}
	if len(cfg.Prefix) >= cfg.MaxGlyphs {
		return nil, errors.Errorf("framehud: text slot prefix %q leaves no value cells (capacity %d)", cfg.Prefix, cfg.MaxGlyphs)
	}
	if cfg.Offset < 0 {
		return nil, errors.Errorf("framehud: text slot instance offset %d must not be negative", cfg.Offset)
	}
	if cfg.CellWidth <= 0 || cfg.CellHeight <= 0 {
		return nil, errors.Errorf("framehud: text slot cell size must be positive")
	}
	return &Slot{cfg: cfg}, nil
}

// Offset returns the slot's first instance index.
func (s *Slot) Offset() int { return s.cfg.Offset }

// MaxGlyphs returns the slot's total cell capacity.
func (s *Slot) MaxGlyphs() int { return s.cfg.MaxGlyphs }

// ValueCapacity returns the number of cells available to the value text.
func (s *Slot) ValueCapacity() int { return s.cfg.MaxGlyphs - len(s.cfg.Prefix) }

// cellTransform computes the local transform for cell i.
func (s *Slot) cellTransform(i int) base.Transform {
	x := s.cfg.AnchorX
	if s.cfg.Align == AlignRight {
		x -= float32(s.cfg.MaxGlyphs-i) * s.cfg.CellWidth
	} else {
		x += float32(i) * s.cfg.CellWidth
	}
	return base.Transform{X: x, Y: s.cfg.AnchorY, SX: s.cfg.CellWidth, SY: s.cfg.CellHeight}
}

// Layout initializes every cell in the slot's reserved instance range: a
// space glyph at the correct cell position, then the prefix literal over the
// leading cells. Called once per window build.
func (s *Slot) Layout(w InstanceWriter, a *Atlas, color base.Color) {
	space := a.UVFor(' ')
	for i := 0; i < s.cfg.MaxGlyphs; i++ {
		idx := s.cfg.Offset + i
		w.SetTransform(idx, s.cellTransform(i))
		w.SetUV(idx, space)
		w.SetColor(idx, color)
	}
	for i := 0; i < len(s.cfg.Prefix); i++ {
		w.SetUV(s.cfg.Offset+i, a.UVFor(s.cfg.Prefix[i]))
	}
	s.lastLen = 0
}

// Write renders the value text into the slot's value cells. Only cells up to
// max(len(text), previous length) are touched: new content is written and any
// now-unused trailing cells are blanked back to spaces. Text beyond the value
// capacity is truncated.
func (s *Slot) Write(w InstanceWriter, a *Atlas, text []byte, color base.Color) {
	n := len(text)
	if c := s.ValueCapacity(); n > c {
		n = c
	}
	valueBase := s.cfg.Offset + len(s.cfg.Prefix)
	for i := 0; i < n; i++ {
		w.SetUV(valueBase+i, a.UVFor(text[i]))
		w.SetColor(valueBase+i, color)
	}
	if n < s.lastLen {
		space := a.UVFor(' ')
		for i := n; i < s.lastLen; i++ {
			w.SetUV(valueBase+i, space)
		}
	}
	s.lastLen = n
	if invariants.Enabled && n > 0 {
		invariants.CheckBounds(valueBase+n-1, s.cfg.Offset+s.cfg.MaxGlyphs)
	}
}

// LastLen returns the number of value glyphs rendered by the previous Write.
func (s *Slot) LastLen() int { return s.lastLen }
