// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package framehud is an embeddable, self-rendering diagnostic overlay for
// real-time interactive 3D applications. It samples frame timing, memory
// consumption, render statistics and custom instrumentation counters, and
// turns them into compact text and bar indicators batched into a single draw
// submission per frame.
//
// The overlay is deliberately cheap: the per-tick path performs no heap
// allocation, re-formats a readout only when its displayed (rounded) value
// actually changes, and uploads only the instance arrays that were touched.
//
// Everything runs inside Tick, which the embedding application calls at a
// fixed point in its frame loop; the overlay does no scheduling of its own
// and is not safe for concurrent use. The window's world placement is
// exposed via WindowOrigin and WindowScale for the backend to apply as the
// draw's root transform.
package framehud

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/framehud/framehud/internal/budget"
	"github.com/framehud/framehud/internal/frametime"
	"github.com/framehud/framehud/internal/metric"
	"github.com/framehud/framehud/internal/textfmt"
)

// maxTimingsPerTick bounds how many host timing pairs one tick consumes.
const maxTimingsPerTick = 64

// Display modes a value can render in; a mode switch (e.g. MB to GB) always
// rewrites the slot even when the gated digits would collide.
const (
	modePlain = iota
	modeKilo
	modeMega
	modeMB
	modeGB
)

// display is the change-gating state of one text slot.
type display struct {
	gate        textfmt.Gate
	lastColor   Color
	lastMode    uint8
	shown       bool
	unavailable bool
}

type statDef struct {
	name   string
	marker string
	unit   UnitKind
}

var statDefs = [...]statDef{
	{name: "Batches", marker: MarkerBatches, unit: UnitCount},
	{name: "Draw Calls", marker: MarkerDrawCalls, unit: UnitCount},
	{name: "Verts", marker: MarkerVertices, unit: UnitMeshCount},
	{name: "Tris", marker: MarkerTriangles, unit: UnitMeshCount},
}

// Overlay is the diagnostic overlay instance. Create one with Open, call
// Tick once per frame, and Close it before tearing down the host providers.
type Overlay struct {
	opts   Options
	logger Logger

	smoother   *frametime.Smoother
	sceneStats [len(statDefs)]*metric.Group
	customs    []*metric.Group

	win      *window
	displays []display

	visible       bool
	renderEnabled bool
	closed        bool

	cpuRate    int
	gpuRate    int
	lastMissed bool
	targetRate int
	missed     uint64

	memUsed     uint64
	memPeak     uint64
	memLimit    uint64
	memUsedOK   bool
	memPeakSeen bool

	lastUsedFill float32
	lastPeakFill float32

	windowPos      Vec3
	windowPosValid bool

	timingScratch [maxTimingsPerTick]Timing
	scratch       [48]byte
}

// Open validates the options and constructs the overlay. A missing atlas or
// backend is not an error: it disables rendering (logged once) while
// sampling and peak tracking continue.
func Open(opts Options) (*Overlay, error) {
	opts.EnsureDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	smoother, err := frametime.NewSmoother(
		float64(opts.SampleWindow)/float64(time.Millisecond),
		opts.DefaultFrameRate, opts.MaxDisplayedFrameRate)
	if err != nil {
		return nil, err
	}

	o := &Overlay{
		opts:       opts,
		logger:     opts.Logger,
		smoother:   smoother,
		visible:    true,
		gpuRate:    -1,
		targetRate: opts.DefaultFrameRate,
	}

	for i := range statDefs {
		d := &statDefs[i]
		g, err := metric.NewGroup(d.name, d.unit, opts.SceneStatCapacity,
			[]metric.Marker{{Name: d.marker, Category: CategoryRender, Rule: metric.Add}})
		if err != nil {
			return nil, err
		}
		o.sceneStats[i] = g
	}
	for i := range opts.CustomMetrics {
		g, err := newCustomGroup(&opts.CustomMetrics[i])
		if err != nil {
			return nil, err
		}
		o.customs = append(o.customs, g)
	}

	if opts.Atlas == nil || opts.Backend == nil {
		o.logger.Errorf("framehud: no glyph atlas or rendering backend bound; rendering disabled, sampling continues")
	} else {
		if err := o.buildWindow(); err != nil {
			return nil, err
		}
		o.renderEnabled = true
		// Until first data arrives every readout shows the placeholder.
		for id := range o.displays {
			o.writeUnavailable(id)
		}
	}
	return o, nil
}

func newCustomGroup(cfg *MetricConfig) (*metric.Group, error) {
	markers := make([]metric.Marker, 0, len(cfg.Markers)+1)
	if len(cfg.Markers) == 0 {
		markers = append(markers, metric.Marker{Name: cfg.Name, Category: cfg.Category, Rule: metric.Add})
	}
	for _, m := range cfg.Markers {
		markers = append(markers, metric.Marker{Name: m.Name, Category: cfg.Category, Rule: m.Rule})
	}
	return metric.NewGroup(cfg.Name, cfg.Unit, cfg.SampleCapacity, markers)
}

// Tick runs one frame of the overlay: sampling, aggregation, change-gated
// re-formatting, and (when visible) the single batched draw submission.
// Ordering within the tick is what the overlay's correctness rests on:
// sampling before formatting before batching.
func (o *Overlay) Tick() {
	if o.closed {
		return
	}

	if t := o.opts.Toggle; t != nil {
		if t.Pending()%2 == 1 {
			o.visible = !o.visible
		}
	}

	var timings []Timing
	hostTarget := 0
	if p := o.opts.FrameTimings; p != nil {
		n := p.FrameTimings(o.timingScratch[:])
		timings = o.timingScratch[:n]
		hostTarget = p.RefreshRate()
	}
	if hostTarget <= 0 {
		o.targetRate = o.opts.DefaultFrameRate
	} else {
		o.targetRate = hostTarget
	}
	r := o.smoother.Tick(timings, hostTarget)

	// Memory is sampled before any visibility check so the peak keeps
	// tracking while the overlay is hidden.
	o.sampleMemory()
	o.sampleGroups()

	if r.Flushed {
		o.cpuRate = r.CPURate
		o.gpuRate = r.GPURate
		o.lastMissed = r.Missed
		if r.Missed {
			o.missed++
		}
		if o.win != nil {
			o.win.buf.ShiftHistory(o.historyColor(r.Missed))
			o.presentFrameRates()
			o.presentGroups()
		}
	}

	if o.win != nil {
		o.presentMemory()
		o.updateBars()
	}
	o.updatePlacement(r.DeltaMillis)

	if o.visible && o.renderEnabled {
		o.win.buf.Flush(o.opts.Backend)
	}
}

// sampleGroups pulls one value per marker from the host profiling facility
// and folds the combined samples into each group's ring.
func (o *Overlay) sampleGroups() {
	src := o.opts.Samples
	for _, g := range o.sceneStats {
		sampleGroup(g, src)
	}
	for _, g := range o.customs {
		sampleGroup(g, src)
	}
}

func sampleGroup(g *metric.Group, src SampleSource) {
	if src == nil {
		g.SetActive(false)
		return
	}
	var combined float64
	active := false
	for _, m := range g.Markers() {
		v, ok := src.Sample(m.Name, m.Category)
		if !ok {
			continue
		}
		active = true
		if m.Rule == metric.Subtract {
			combined -= v
		} else {
			combined += v
		}
	}
	g.SetActive(active)
	if active {
		g.Push(combined)
	}
}

func (o *Overlay) sampleMemory() {
	o.memUsedOK = false
	m := o.opts.Memory
	if m == nil {
		return
	}
	if used, ok := m.UsedBytes(); ok {
		o.memUsed = used
		o.memUsedOK = true
		o.memPeakSeen = true
		if used > o.memPeak {
			o.memPeak = used
		}
	}
	if limit, ok := m.LimitBytes(); ok && limit > 0 {
		o.memLimit = limit
	}
}

// presentFrameRates rewrites the CPU/GPU readouts after a window flush.
func (o *Overlay) presentFrameRates() {
	c := o.opts.Palette.TargetFrame
	if o.lastMissed {
		c = o.opts.Palette.MissedFrame
	}
	o.writeRateSlot(slotCPU, o.cpuRate, c)
	if o.gpuRate < 0 {
		o.writeUnavailable(slotGPU)
	} else {
		o.writeRateSlot(slotGPU, o.gpuRate, c)
	}
}

// presentGroups rewrites the scene-statistic and custom readouts after a
// window flush, colorized against their budgets.
func (o *Overlay) presentGroups() {
	level := 0
	if q := o.opts.Quality; q != nil {
		level = q.QualityLevel()
	}
	pal := budget.Palette{
		Neutral: o.opts.Palette.Neutral,
		Within:  o.opts.Palette.WithinBudget,
		Over:    o.opts.Palette.OverBudget,
	}

	for i, g := range o.sceneStats {
		id := slotBatches + i
		if !g.Active() {
			o.writeUnavailable(id)
			continue
		}
		if !g.ReadyToPresent() {
			continue
		}
		avg := g.Average()
		o.writeValueSlot(id, g.Unit(), avg, budget.ColorFor(o.statTable(i), level, avg, pal))
		g.MarkPresented(avg)
	}

	for i, g := range o.customs {
		id := numBuiltinSlots + i
		if !g.Active() {
			o.writeUnavailable(id)
			continue
		}
		if !g.ReadyToPresent() {
			continue
		}
		avg := g.Average()
		c := o.opts.Palette.Neutral
		if frac := o.opts.CustomMetrics[i].BudgetFraction; frac > 0 && g.Unit() == UnitTime {
			// The ceiling is re-derived per comparison: the target frame
			// time moves when the device refresh rate does.
			if avg > budget.TimeCeiling(1000/float64(o.targetRate), frac) {
				c = o.opts.Palette.OverBudget
			} else {
				c = o.opts.Palette.WithinBudget
			}
		}
		o.writeValueSlot(id, g.Unit(), avg, c)
		g.MarkPresented(avg)
	}
}

func (o *Overlay) statTable(i int) BudgetTable {
	switch i {
	case 0:
		return o.opts.Budgets.Batches
	case 1:
		return o.opts.Budgets.DrawCalls
	case 2:
		return o.opts.Budgets.Vertices
	default:
		return o.opts.Budgets.Triangles
	}
}

// presentMemory rewrites the memory readouts; these refresh every tick, not
// per flush, but the change gate keeps the cost at zero while values hold.
func (o *Overlay) presentMemory() {
	c := o.opts.Palette.Text
	if o.memUsedOK {
		o.writeValueSlot(slotUsed, UnitBytes, float64(o.memUsed), c)
	} else {
		o.writeUnavailable(slotUsed)
	}
	if o.memPeakSeen {
		o.writeValueSlot(slotPeak, UnitBytes, float64(o.memPeak), c)
	} else {
		o.writeUnavailable(slotPeak)
	}
	if o.memLimit > 0 {
		o.writeValueSlot(slotLimit, UnitBytes, float64(o.memLimit), c)
	} else {
		o.writeUnavailable(slotLimit)
	}
}

// updateBars refreshes the memory-bar fill fractions. A zero or unknown
// limit means the fraction cannot be computed and the fills stay at zero.
func (o *Overlay) updateBars() {
	if o.memLimit == 0 || !o.memPeakSeen {
		return
	}
	if fill := barFraction(o.memUsed, o.memLimit); fill != o.lastUsedFill {
		o.win.buf.SetBarFill(barUsed, fill)
		o.lastUsedFill = fill
	}
	if fill := barFraction(o.memPeak, o.memLimit); fill != o.lastPeakFill {
		o.win.buf.SetBarFill(barPeak, fill)
		o.lastPeakFill = fill
	}
}

func barFraction(v, limit uint64) float32 {
	f := float32(float64(v) / float64(limit))
	if f > 1 {
		f = 1
	}
	return f
}

// updatePlacement chases the camera with the configured follow speed. This
// touches only the window origin, never the instance arrays.
func (o *Overlay) updatePlacement(dtMillis float64) {
	p := o.opts.CameraPose
	if p == nil {
		return
	}
	pose, ok := p.CameraPose()
	if !ok {
		return
	}
	target := pose.Position.
		Add(pose.Forward.Scale(o.opts.Window.Distance)).
		Add(o.opts.Window.Offset)
	if !o.windowPosValid {
		o.windowPos = target
		o.windowPosValid = true
		return
	}
	o.windowPos = o.windowPos.Lerp(target, float32(dtMillis/1e3)*o.opts.Window.FollowSpeed)
}

// writeRateSlot renders "NNfps (M.Mms)" into a frame-rate slot, gated on the
// rounded rate.
func (o *Overlay) writeRateSlot(id, rate int, c Color) {
	d := &o.displays[id]
	changed := d.gate.Changed(float64(rate), 0)
	if d.shown && !d.unavailable && !changed && c == d.lastColor {
		return
	}
	n := textfmt.Int(o.scratch[:], int64(rate))
	n += copy(o.scratch[n:], "fps (")
	var ms float64
	if rate > 0 {
		ms = 1000 / float64(rate)
	}
	n += textfmt.Fixed(o.scratch[n:], ms, o.opts.DecimalDigits, "ms)")
	o.win.slots[id].Write(o.win.buf, o.win.atlas, o.scratch[:n], c)
	d.shown, d.unavailable, d.lastColor = true, false, c
}

// writeValueSlot renders a metric value, gated on its converted displayed
// form so sub-display-precision noise never causes a rewrite.
func (o *Overlay) writeValueSlot(id int, kind UnitKind, v float64, c Color) {
	d := &o.displays[id]
	conv, gateDigits, mode := gateValue(kind, v, o.opts.DecimalDigits)
	changed := d.gate.Changed(conv, gateDigits)
	if d.shown && !d.unavailable && !changed && mode == d.lastMode && c == d.lastColor {
		return
	}
	n := formatValue(o.scratch[:], kind, v, o.opts.DecimalDigits)
	o.win.slots[id].Write(o.win.buf, o.win.atlas, o.scratch[:n], c)
	d.shown, d.unavailable, d.lastColor, d.lastMode = true, false, c, mode
}

// writeUnavailable renders the "-.-" placeholder once; repeated calls while
// the value stays unavailable are free.
func (o *Overlay) writeUnavailable(id int) {
	d := &o.displays[id]
	if d.shown && d.unavailable {
		return
	}
	n := textfmt.Unavailable(o.scratch[:])
	o.win.slots[id].Write(o.win.buf, o.win.atlas, o.scratch[:n], o.opts.Palette.Neutral)
	d.shown, d.unavailable = true, true
	d.gate.Reset()
}

// gateValue applies the unit conversion that precedes change-gating and
// reports the display mode so a suffix switch always rewrites.
func gateValue(kind UnitKind, v float64, digits int) (conv float64, gateDigits int, mode uint8) {
	switch kind {
	case UnitBytes:
		cv, suffix := textfmt.BytesDisplay(uint64(v))
		if suffix == "GB" {
			return cv, digits, modeGB
		}
		return cv, digits, modeMB
	case UnitCount:
		cv, suffix := textfmt.CountDisplay(v)
		if suffix == "" {
			return cv, 0, modePlain
		}
		return cv, digits, modeKilo
	case UnitMeshCount:
		cv, suffix := textfmt.MeshDisplay(v)
		if suffix == "m" {
			return cv, digits, modeMega
		}
		return cv, digits, modeKilo
	default:
		return v, digits, modePlain
	}
}

func formatValue(dst []byte, kind UnitKind, v float64, digits int) int {
	switch kind {
	case UnitBytes:
		return textfmt.Bytes(dst, uint64(v), digits)
	case UnitCount:
		return textfmt.Count(dst, v, digits)
	case UnitMeshCount:
		return textfmt.Mesh(dst, v, digits)
	default:
		return textfmt.Fixed(dst, v, digits, kind.Suffix())
	}
}

// Refresh zeroes all tracked display state (frame rate, scene statistics,
// memory peak) without destroying configuration, for re-baselining after a
// scene transition.
func (o *Overlay) Refresh() {
	o.smoother.Reset()
	o.cpuRate = 0
	o.gpuRate = -1
	o.lastMissed = false
	o.missed = 0
	o.memPeak = 0
	o.memPeakSeen = false
	o.memUsedOK = false
	o.lastUsedFill = 0
	o.lastPeakFill = 0
	for _, g := range o.sceneStats {
		g.Reset()
	}
	for _, g := range o.customs {
		g.Reset()
	}
	if o.win != nil {
		for i := range o.displays {
			o.displays[i] = display{}
		}
		for id := range o.displays {
			o.writeUnavailable(id)
		}
		for i := 0; i < o.opts.FrameHistoryLength; i++ {
			o.win.buf.SetColor(o.win.buf.HistoryIndex(i), o.opts.Palette.Neutral)
		}
		o.win.buf.SetBarFill(barUsed, 0)
		o.win.buf.SetBarFill(barPeak, 0)
	}
}

// SetVisible sets the visibility flag. While hidden, sampling (notably peak
// memory tracking) continues but no draw submission is made.
func (o *Overlay) SetVisible(v bool) { o.visible = v }

// Visible reports the current visibility flag.
func (o *Overlay) Visible() bool { return o.visible }

// ToggleVisibility flips the visibility flag; the host wires it to whatever
// external toggle it supports.
func (o *Overlay) ToggleVisibility() { o.visible = !o.visible }

// SetDecimalDigits changes the displayed fractional digit count. This is a
// layout-affecting change: the window is rebuilt and every readout
// re-presents on the next tick.
func (o *Overlay) SetDecimalDigits(digits int) error {
	if digits < 0 || digits > textfmt.MaxDigits {
		return errors.Errorf("framehud: DecimalDigits must be in [0, %d] (got %d)", textfmt.MaxDigits, digits)
	}
	if digits == o.opts.DecimalDigits {
		return nil
	}
	o.opts.DecimalDigits = digits
	if o.renderEnabled {
		return o.buildWindow()
	}
	return nil
}

// WindowOrigin returns the window's interpolated world position, valid once
// a camera pose has been observed.
func (o *Overlay) WindowOrigin() (Vec3, bool) { return o.windowPos, o.windowPosValid }

// WindowScale returns the world-units-per-pixel scale for the window.
func (o *Overlay) WindowScale() float32 { return o.opts.Window.Scale }

// WindowSize returns the window dimensions in pixels, or zeros when
// rendering is disabled.
func (o *Overlay) WindowSize() (w, h float32) {
	if o.win == nil {
		return 0, 0
	}
	return o.win.width, o.win.height
}

// Close releases host sampling handles synchronously. Providers that
// implement io.Closer are closed; the overlay must not be ticked afterwards.
func (o *Overlay) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	var err error
	for _, p := range []interface{}{
		o.opts.Samples, o.opts.FrameTimings, o.opts.Memory,
		o.opts.Quality, o.opts.CameraPose, o.opts.Toggle,
	} {
		if c, ok := p.(io.Closer); ok {
			err = errors.CombineErrors(err, c.Close())
		}
	}
	return err
}
