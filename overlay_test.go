// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package framehud

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testAtlas() *Atlas {
	return &Atlas{
		CellWidth:  8,
		CellHeight: 16,
		Columns:    16,
		FirstChar:  ' ',
		LastChar:   '~',
	}
}

type fakeSamples struct {
	vals map[string]float64
}

func (f *fakeSamples) set(name string, v float64) {
	if f.vals == nil {
		f.vals = make(map[string]float64)
	}
	f.vals[name] = v
}

func (f *fakeSamples) Sample(name, category string) (float64, bool) {
	v, ok := f.vals[name]
	return v, ok
}

type fakeTimings struct {
	frames []Timing
	rate   int
}

func (f *fakeTimings) FrameTimings(buf []Timing) int {
	n := copy(buf, f.frames)
	f.frames = f.frames[:0]
	return n
}

func (f *fakeTimings) RefreshRate() int { return f.rate }

type fakeMemory struct {
	used, limit   uint64
	usedOK, limOK bool
}

func (f *fakeMemory) UsedBytes() (uint64, bool)  { return f.used, f.usedOK }
func (f *fakeMemory) LimitBytes() (uint64, bool) { return f.limit, f.limOK }

type fakeToggle struct {
	pending int
}

func (f *fakeToggle) Pending() int {
	n := f.pending
	f.pending = 0
	return n
}

type drawOnlyBackend struct {
	draws     int
	instances int
}

func (b *drawOnlyBackend) UploadTransforms(t []Transform) {}
func (b *drawOnlyBackend) UploadColors(c []Color)         {}
func (b *drawOnlyBackend) UploadBaseColors(c []Color)     {}
func (b *drawOnlyBackend) UploadUVRects(uv []UVRect)      {}
func (b *drawOnlyBackend) Draw(instances int) {
	b.draws++
	b.instances = instances
}

// slotText decodes the characters a slot currently displays by mapping each
// cell's UV rect back through the atlas.
func slotText(o *Overlay, id int) string {
	s := o.win.slots[id]
	a := o.win.atlas
	rows := (int(a.LastChar-a.FirstChar) + a.Columns) / a.Columns
	var sb strings.Builder
	for i := 0; i < s.MaxGlyphs(); i++ {
		uv := o.win.buf.UV(s.Offset() + i)
		col := int(uv.U*float32(a.Columns) + 0.5)
		row := int(uv.V*float32(rows) + 0.5)
		sb.WriteByte(byte(a.FirstChar) + byte(row*a.Columns+col))
	}
	return strings.TrimRight(sb.String(), " ")
}

func openTestOverlay(t *testing.T, opts Options) *Overlay {
	t.Helper()
	if opts.Atlas == nil {
		opts.Atlas = testAtlas()
	}
	if opts.Backend == nil {
		opts.Backend = &drawOnlyBackend{}
	}
	o, err := Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, o.Close()) })
	return o
}

func TestOverlayPlaceholdersBeforeData(t *testing.T) {
	o := openTestOverlay(t, Options{})
	require.Equal(t, "CPU: -.-", slotText(o, slotCPU))
	require.Equal(t, "Used: -.-", slotText(o, slotUsed))
	require.Equal(t, "Draw Calls: -.-", slotText(o, slotDrawCalls))
}

func TestOverlayMemoryReadout(t *testing.T) {
	mem := &fakeMemory{used: 512 << 20, limit: 1 << 30, usedOK: true, limOK: true}
	o := openTestOverlay(t, Options{Memory: mem})

	o.Tick()
	require.Equal(t, "Used: 512.0MB", slotText(o, slotUsed))
	require.Equal(t, "Peak: 512.0MB", slotText(o, slotPeak))
	require.Equal(t, "Limit: 1024.0MB", slotText(o, slotLimit))
	require.Equal(t, float32(0.5), o.win.buf.UV(o.win.buf.BarIndex(barUsed)).SV)
	require.Equal(t, float32(0.5), o.win.buf.UV(o.win.buf.BarIndex(barPeak)).SV)

	// Crossing 1024MB switches the readout to gigabytes.
	mem.used = 1536 << 20
	o.Tick()
	require.Equal(t, "Used: 1.5GB", slotText(o, slotUsed))
	require.Equal(t, "Peak: 1.5GB", slotText(o, slotPeak))

	// Usage drops; the peak holds.
	mem.used = 512 << 20
	o.Tick()
	require.Equal(t, "Used: 512.0MB", slotText(o, slotUsed))
	require.Equal(t, "Peak: 1.5GB", slotText(o, slotPeak))

	m := o.Metrics()
	require.Equal(t, uint64(512<<20), m.MemoryUsed)
	require.Equal(t, uint64(1536<<20), m.MemoryPeak)
	require.Equal(t, uint64(1<<30), m.MemoryLimit)
}

func TestOverlayFrameRateFlush(t *testing.T) {
	timings := &fakeTimings{rate: 60}
	o := openTestOverlay(t, Options{FrameTimings: timings})

	// 7 frames of 16ms overflow the 100ms window in one tick: 112/7 = 16ms
	// per frame, displayed as 63fps.
	for i := 0; i < 7; i++ {
		timings.frames = append(timings.frames, Timing{CPUMillis: 16, GPUMillis: 15})
	}
	o.Tick()

	require.Equal(t, "CPU: 63fps (15.8ms)", slotText(o, slotCPU))
	require.Equal(t, "GPU: 67fps (14.9ms)", slotText(o, slotGPU))
	require.Equal(t, o.opts.Palette.TargetFrame, o.win.buf.Color(o.win.buf.HistoryIndex(0)))

	m := o.Metrics()
	require.Equal(t, 63, m.CPUFrameRate)
	require.Equal(t, 67, m.GPUFrameRate)
	require.Equal(t, uint64(0), m.MissedWindows)
}

func TestOverlayMissedFrames(t *testing.T) {
	timings := &fakeTimings{rate: 60}
	o := openTestOverlay(t, Options{FrameTimings: timings})

	// 18ms frames average out to 56fps, below the 59fps miss threshold.
	for i := 0; i < 6; i++ {
		timings.frames = append(timings.frames, Timing{CPUMillis: 18, GPUMillis: -1})
	}
	o.Tick()

	require.Equal(t, "CPU: 56fps (17.8ms)", slotText(o, slotCPU))
	require.Equal(t, "GPU: -.-", slotText(o, slotGPU))
	require.Equal(t, o.opts.Palette.MissedFrame, o.win.buf.Color(o.win.buf.HistoryIndex(0)))
	require.Equal(t, uint64(1), o.Metrics().MissedWindows)
	require.Equal(t, -1, o.Metrics().GPUFrameRate)
}

func TestOverlaySceneStats(t *testing.T) {
	samples := &fakeSamples{}
	samples.set(MarkerDrawCalls, 120)
	samples.set(MarkerTriangles, 250000)
	timings := &fakeTimings{rate: 60}
	o := openTestOverlay(t, Options{
		Samples:           samples,
		FrameTimings:      timings,
		SceneStatCapacity: 1,
		Budgets: Budgets{
			DrawCalls: BudgetTable{100},
		},
	})

	timings.frames = append(timings.frames, Timing{CPUMillis: 120})
	o.Tick()

	require.Equal(t, "Draw Calls: 120", slotText(o, slotDrawCalls))
	require.Equal(t, "Tris: 250.0k", slotText(o, slotTris))
	// Batches never sampled: placeholder, not zero.
	require.Equal(t, "Batches: -.-", slotText(o, slotBatches))

	// 120 draw calls against a level-0 ceiling of 100: over budget. The
	// color lands on the first value cell after the "Draw Calls: " prefix.
	valueCell := o.win.slots[slotDrawCalls].Offset() + len("Draw Calls: ")
	require.Equal(t, o.opts.Palette.OverBudget, o.win.buf.Color(valueCell))
}

func TestOverlayChangeGating(t *testing.T) {
	// No memory limit: the bar fills stay put and every upload observed here
	// comes from the text slots.
	mem := &fakeMemory{used: 512 << 20, usedOK: true}
	o := openTestOverlay(t, Options{Memory: mem})

	o.Tick()
	before := o.win.buf.Stats()

	// Sub-display-precision movement: 512.0MB either way.
	mem.used += 1024
	o.Tick()
	mid := o.win.buf.Stats()
	require.Equal(t, before.UVUploads, mid.UVUploads)
	require.Equal(t, before.ColorUploads, mid.ColorUploads)
	require.Equal(t, before.Draws+1, mid.Draws)

	// A full displayed-digit step re-renders.
	mem.used = 513 << 20
	o.Tick()
	after := o.win.buf.Stats()
	require.Equal(t, mid.UVUploads+1, after.UVUploads)
}

func TestOverlayHiddenKeepsSampling(t *testing.T) {
	mem := &fakeMemory{used: 512 << 20, usedOK: true}
	backend := &drawOnlyBackend{}
	o := openTestOverlay(t, Options{Memory: mem, Backend: backend})

	o.SetVisible(false)
	mem.used = 2 << 30
	o.Tick()

	require.Zero(t, backend.draws)
	require.Equal(t, uint64(2<<30), o.Metrics().MemoryPeak)

	o.SetVisible(true)
	o.Tick()
	require.Equal(t, 1, backend.draws)
}

func TestOverlayToggleSource(t *testing.T) {
	toggle := &fakeToggle{}
	o := openTestOverlay(t, Options{Toggle: toggle})

	require.True(t, o.Visible())
	toggle.pending = 1
	o.Tick()
	require.False(t, o.Visible())

	// An even number of queued toggles cancels out.
	toggle.pending = 2
	o.Tick()
	require.False(t, o.Visible())

	toggle.pending = 3
	o.Tick()
	require.True(t, o.Visible())
}

func TestOverlayRenderDisabled(t *testing.T) {
	mem := &fakeMemory{used: 256 << 20, usedOK: true}
	o, err := Open(Options{Memory: mem})
	require.NoError(t, err)
	defer o.Close()

	require.False(t, o.Metrics().RenderEnabled)
	o.Tick()
	require.Equal(t, uint64(256<<20), o.Metrics().MemoryPeak)
}

func TestOverlayRefresh(t *testing.T) {
	mem := &fakeMemory{used: 1 << 30, limit: 2 << 30, usedOK: true, limOK: true}
	timings := &fakeTimings{rate: 60}
	o := openTestOverlay(t, Options{Memory: mem, FrameTimings: timings})

	for i := 0; i < 8; i++ {
		timings.frames = append(timings.frames, Timing{CPUMillis: 20})
	}
	o.Tick()
	require.NotZero(t, o.Metrics().CPUFrameRate)
	require.NotZero(t, o.Metrics().MemoryPeak)

	o.Refresh()
	require.Zero(t, o.Metrics().CPUFrameRate)
	require.Zero(t, o.Metrics().MemoryPeak)
	require.Zero(t, o.Metrics().MissedWindows)
	require.Equal(t, "CPU: -.-", slotText(o, slotCPU))
	require.Equal(t, o.opts.Palette.Neutral, o.win.buf.Color(o.win.buf.HistoryIndex(0)))
}

func TestOverlayCustomMetrics(t *testing.T) {
	samples := &fakeSamples{}
	samples.set("Physics", 12)
	samples.set("GC Alloc", 30)
	samples.set("GC Free", 10)
	timings := &fakeTimings{rate: 60}
	o := openTestOverlay(t, Options{
		Samples:      samples,
		FrameTimings: timings,
		CustomMetrics: []MetricConfig{
			{Name: "Physics", Unit: UnitTime, SampleCapacity: 1, BudgetFraction: 0.5},
			{
				Name: "GC Delta", Unit: UnitCount, SampleCapacity: 1,
				Markers: []MetricMarker{
					{Name: "GC Alloc", Rule: CombineAdd},
					{Name: "GC Free", Rule: CombineSubtract},
				},
			},
		},
	})

	timings.frames = append(timings.frames, Timing{CPUMillis: 120})
	o.Tick()

	require.Equal(t, "Physics: 12.0ms", slotText(o, numBuiltinSlots))
	require.Equal(t, "GC Delta: 20", slotText(o, numBuiltinSlots+1))

	// 12ms against a budget of half a 60Hz frame (8.3ms): over.
	valueCell := o.win.slots[numBuiltinSlots].Offset() + len("Physics: ")
	require.Equal(t, o.opts.Palette.OverBudget, o.win.buf.Color(valueCell))
}

func TestOverlayWindowPlacement(t *testing.T) {
	pose := Pose{
		Position: Vec3{X: 1, Y: 2, Z: 3},
		Forward:  Vec3{Z: 1},
		Up:       Vec3{Y: 1},
	}
	o := openTestOverlay(t, Options{
		CameraPose: staticPose{pose: pose},
		Window:     WindowPlacement{Distance: 2, Offset: Vec3{Y: -0.5}},
	})

	_, ok := o.WindowOrigin()
	require.False(t, ok)

	// First observed pose snaps.
	o.Tick()
	origin, ok := o.WindowOrigin()
	require.True(t, ok)
	require.Equal(t, Vec3{X: 1, Y: 1.5, Z: 5}, origin)
}

type staticPose struct {
	pose Pose
}

func (s staticPose) CameraPose() (Pose, bool) { return s.pose, true }

func TestOverlaySetDecimalDigits(t *testing.T) {
	mem := &fakeMemory{used: 512 << 20, usedOK: true}
	o := openTestOverlay(t, Options{Memory: mem})

	o.Tick()
	require.Equal(t, "Used: 512.0MB", slotText(o, slotUsed))

	require.NoError(t, o.SetDecimalDigits(2))
	o.Tick()
	require.Equal(t, "Used: 512.00MB", slotText(o, slotUsed))

	require.Error(t, o.SetDecimalDigits(-1))
}

func TestRegisterMetric(t *testing.T) {
	var opts Options
	require.NoError(t, opts.RegisterMetric(MetricConfig{Name: "Physics", SampleCapacity: 8}))
	require.Error(t, opts.RegisterMetric(MetricConfig{Name: "", SampleCapacity: 8}))
	require.Error(t, opts.RegisterMetric(MetricConfig{Name: "Physics", SampleCapacity: 8}))
	require.Error(t, opts.RegisterMetric(MetricConfig{Name: "AI", SampleCapacity: 0}))
	require.Error(t, opts.RegisterMetric(MetricConfig{Name: "GC", SampleCapacity: 8, BudgetFraction: 1.5}))
	require.Len(t, opts.CustomMetrics, 1)
}

func TestOpenRejectsInvalidOptions(t *testing.T) {
	_, err := Open(Options{DecimalDigits: -1})
	require.Error(t, err)
	_, err = Open(Options{FrameHistoryLength: 500})
	require.Error(t, err)
	_, err = Open(Options{CustomMetrics: []MetricConfig{{Name: ""}}})
	require.Error(t, err)
	_, err = Open(Options{CustomMetrics: []MetricConfig{
		{Name: "A", SampleCapacity: 1},
		{Name: "A", SampleCapacity: 1},
	}})
	require.Error(t, err)
}
