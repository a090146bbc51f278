// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package framehud

import (
	"github.com/cockroachdb/errors"
	"github.com/framehud/framehud/internal/batch"
	"github.com/framehud/framehud/internal/glyph"
	"github.com/framehud/framehud/internal/invariants"
)

// Built-in text slots, in layout order. Custom metric slots follow.
const (
	slotCPU = iota
	slotGPU
	slotBatches
	slotDrawCalls
	slotVerts
	slotTris
	slotUsed
	slotPeak
	slotLimit
	numBuiltinSlots
)

type slotDef struct {
	prefix   string
	valueCap int
	col, row int
}

var builtinSlots = [numBuiltinSlots]slotDef{
	slotCPU:       {prefix: "CPU: ", valueCap: 16, col: 0, row: 0},
	slotGPU:       {prefix: "GPU: ", valueCap: 16, col: 1, row: 0},
	slotBatches:   {prefix: "Batches: ", valueCap: 8, col: 0, row: 1},
	slotDrawCalls: {prefix: "Draw Calls: ", valueCap: 8, col: 1, row: 1},
	slotVerts:     {prefix: "Verts: ", valueCap: 8, col: 0, row: 2},
	slotTris:      {prefix: "Tris: ", valueCap: 8, col: 1, row: 2},
	slotUsed:      {prefix: "Used: ", valueCap: 10, col: 0, row: 3},
	slotPeak:      {prefix: "Peak: ", valueCap: 10, col: 1, row: 3},
	slotLimit:     {prefix: "Limit: ", valueCap: 10, col: 0, row: 4},
}

const customValueCap = 12

// Window pixel layout constants, in atlas-pixel units before the placement
// scale is applied.
const (
	windowPad   = 6
	rowGap      = 2
	columnCells = 24
)

// Memory-bar segment order.
const (
	barUsed = iota
	barPeak
	barLimit
)

// window is one built overlay layout: the instance buffer plus the text
// slots writing into it. Rebuilt (and resized) only when layout-affecting
// configuration changes.
type window struct {
	buf    *batch.Buffer
	slots  []*glyph.Slot
	atlas  *Atlas
	width  float32
	height float32
}

// buildWindow sizes the instance arrays and lays out every visual element:
// background plate, frame-history strip, memory bar and all text slots. The
// instance arrays are fixed-length from here until the next rebuild.
func (o *Overlay) buildWindow() error {
	a := o.opts.Atlas
	cellW := float32(a.CellWidth)
	cellH := float32(a.CellHeight)

	numSlots := numBuiltinSlots + len(o.customs)
	customRows := (len(o.customs) + 1) / 2
	numRows := 5 + customRows

	colW := columnCells * cellW
	width := windowPad + colW + windowPad + colW + windowPad
	historyH := cellH / 2
	barH := cellH / 2
	textTop := windowPad + historyH + windowPad
	rowH := cellH + rowGap
	barY := textTop + float32(numRows)*rowH + windowPad
	height := barY + barH + windowPad

	glyphCells := 0
	for i := range builtinSlots {
		glyphCells += len(builtinSlots[i].prefix) + builtinSlots[i].valueCap
	}
	for i := range o.customs {
		glyphCells += len(o.customs[i].Name()) + 2 + customValueCap
	}

	buf, err := batch.NewBuffer(batch.Layout{
		HistorySlots: o.opts.FrameHistoryLength,
		GlyphCells:   glyphCells,
	})
	if err != nil {
		return err
	}

	slotAnchor := func(col, row int) (x, y float32) {
		x = windowPad + float32(col)*(colW+windowPad)
		y = textTop + float32(row)*rowH
		return x, y
	}

	slots := make([]*glyph.Slot, 0, numSlots)
	offset := buf.GlyphBase()
	addSlot := func(prefix string, valueCap, col, row int) error {
		x, y := slotAnchor(col, row)
		s, err := glyph.NewSlot(glyph.SlotConfig{
			Prefix:    prefix,
			AnchorX:   x,
			AnchorY:   y,
			Align:     glyph.AlignLeft,
			Offset:    offset,
			MaxGlyphs: len(prefix) + valueCap,
			CellWidth: cellW, CellHeight: cellH,
		})
		if err != nil {
			return err
		}
		slots = append(slots, s)
		offset += s.MaxGlyphs()
		return nil
	}

	for i := range builtinSlots {
		d := &builtinSlots[i]
		if err := addSlot(d.prefix, d.valueCap, d.col, d.row); err != nil {
			return err
		}
	}
	for i := range o.customs {
		if err := addSlot(o.customs[i].Name()+": ", customValueCap, i%2, 5+i/2); err != nil {
			return err
		}
	}
	// Slot instance ranges are disjoint by construction; the last one must
	// end exactly at the buffer's length.
	if invariants.Enabled && offset != buf.Len() {
		return errors.AssertionFailedf("slot ranges end at %d, buffer holds %d instances", offset, buf.Len())
	}

	p := &o.opts.Palette
	space := a.UVFor(' ')

	// Background plate.
	buf.SetTransform(buf.BackgroundIndex(), Transform{X: 0, Y: 0, SX: width, SY: height})
	buf.SetBaseColor(buf.BackgroundIndex(), p.Background)
	buf.SetUV(buf.BackgroundIndex(), space)

	// Frame-history strip, newest cell leftmost.
	histCellW := (width - 2*windowPad) / float32(o.opts.FrameHistoryLength)
	for i := 0; i < o.opts.FrameHistoryLength; i++ {
		idx := buf.HistoryIndex(i)
		buf.SetTransform(idx, Transform{
			X:  windowPad + float32(i)*histCellW,
			Y:  windowPad,
			SX: histCellW * 0.9,
			SY: historyH,
		})
		buf.SetColor(idx, p.Neutral)
		buf.SetUV(idx, space)
	}

	// Memory bar: three stacked segments at the same position; the fill
	// fraction lives in the UV rect's spare channel.
	barColors := [batch.BarSegments]Color{barUsed: p.BarUsed, barPeak: p.BarPeak, barLimit: p.BarLimit}
	for i := 0; i < batch.BarSegments; i++ {
		idx := buf.BarIndex(i)
		buf.SetTransform(idx, Transform{X: windowPad, Y: barY, SX: width - 2*windowPad, SY: barH})
		buf.SetColor(idx, barColors[i])
		buf.SetUV(idx, space)
	}
	buf.SetBarFill(barLimit, 1)

	for _, s := range slots {
		s.Layout(buf, a, p.Text)
	}

	o.win = &window{buf: buf, slots: slots, atlas: a, width: width, height: height}
	o.displays = make([]display, numSlots)
	return nil
}

// historyColor maps a flush result onto the frame-history cell color.
func (o *Overlay) historyColor(missed bool) Color {
	if missed {
		return o.opts.Palette.MissedFrame
	}
	return o.opts.Palette.TargetFrame
}
