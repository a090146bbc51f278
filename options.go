// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package framehud

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/framehud/framehud/internal/textfmt"
)

// Well-known marker names for the built-in scene statistics. The host's
// SampleSource maps them onto whatever its profiling facility calls them; a
// marker the host cannot serve simply reports unavailable.
const (
	CategoryRender = "Render"
	CategoryMemory = "Memory"

	MarkerBatches   = "Batches Count"
	MarkerDrawCalls = "Draw Calls Count"
	MarkerVertices  = "Vertices Count"
	MarkerTriangles = "Triangles Count"
)

// MetricMarker names one host counter feeding a custom metric group.
type MetricMarker struct {
	Name string
	Rule CombineRule
}

// MetricConfig declares one custom metric group. Groups are created when the
// overlay is opened and live until it is closed.
type MetricConfig struct {
	// Name is the display name; it doubles as the marker name when Markers
	// is empty.
	Name     string
	Category string
	Unit     UnitKind
	// SampleCapacity is the group's ring-buffer size. Zero is invalid.
	SampleCapacity int
	// BudgetFraction colors time-kind metrics against this fraction of the
	// target frame time, re-derived on every comparison since the target can
	// change with the device. Zero disables budget colorization.
	BudgetFraction float64
	// Markers lists the counters combined into the group's per-tick sample
	// (Add/Subtract lets a group track "A minus B"). Empty means one Add
	// marker named Name.
	Markers []MetricMarker
}

// Budgets holds the per-quality-level ceilings for the built-in scene
// statistics. All four stats are gated the same way; an empty table means no
// budget is enforced and the stat always displays in the neutral color.
type Budgets struct {
	Batches   BudgetTable
	DrawCalls BudgetTable
	Vertices  BudgetTable
	Triangles BudgetTable
}

// Palette is the overlay's color set.
type Palette struct {
	Background   Color
	Text         Color
	Neutral      Color
	WithinBudget Color
	OverBudget   Color
	// TargetFrame and MissedFrame color the frame-history cells and the
	// frame-rate readouts.
	TargetFrame Color
	MissedFrame Color
	BarUsed     Color
	BarPeak     Color
	BarLimit    Color
}

// WindowPlacement positions the overlay window relative to the camera.
type WindowPlacement struct {
	// Distance along the camera's forward vector, in world units.
	Distance float32
	// Offset from that point, in world units.
	Offset Vec3
	// Scale converts window pixels to world units.
	Scale float32
	// FollowSpeed is the interpolation rate (per second) at which the window
	// chases its target position. Zero snaps immediately.
	FollowSpeed float32
}

// Options holds the parameters for an overlay. Zero-valued fields are filled
// by EnsureDefaults; invalid values are rejected by Validate at Open time,
// never repaired mid-run.
type Options struct {
	// Logger receives configuration diagnostics. Never called on the
	// per-tick path.
	Logger Logger

	// SampleWindow is the accumulated CPU time per frame-rate flush.
	// Default 100ms.
	SampleWindow time.Duration
	// DefaultFrameRate is the target frame rate assumed when the host
	// reports an unknown refresh rate. Default 60.
	DefaultFrameRate int
	// MaxDisplayedFrameRate clamps the rendered rate. Default 120.
	MaxDisplayedFrameRate int
	// DecimalDigits is the fractional digit count for fixed-point readouts.
	// Default 1.
	DecimalDigits int
	// FrameHistoryLength is the number of frame-history cells. Default 30.
	FrameHistoryLength int
	// SceneStatCapacity is the ring-buffer size for the built-in scene
	// statistic groups. Default 30.
	SceneStatCapacity int

	// Atlas describes the monospace font atlas. Nil disables rendering (a
	// logged degradation, not an error); sampling continues.
	Atlas *Atlas
	// Backend receives the instance arrays and the one draw per tick. Nil
	// disables rendering like a missing atlas.
	Backend Backend

	// Host collaborators. Any of these may be nil; the corresponding values
	// display as unavailable.
	Samples      SampleSource
	FrameTimings FrameTimingProvider
	Memory       MemoryProvider
	Quality      QualitySource
	CameraPose   PoseProvider
	Toggle       ToggleSource

	Budgets Budgets
	Palette Palette
	Window  WindowPlacement

	// CustomMetrics declares additional tracked groups.
	CustomMetrics []MetricConfig
}

// RegisterMetric adds a custom metric group to the options, rejecting
// configurations Validate would reject. Groups can only be registered before
// the overlay is opened; the window layout is sized from them.
func (o *Options) RegisterMetric(cfg MetricConfig) error {
	if cfg.Name == "" {
		return errors.New("framehud: custom metric name must not be empty")
	}
	for i := range o.CustomMetrics {
		if o.CustomMetrics[i].Name == cfg.Name {
			return errors.Errorf("framehud: duplicate custom metric name %q", cfg.Name)
		}
	}
	if cfg.SampleCapacity <= 0 {
		return errors.Errorf("framehud: custom metric %q: SampleCapacity must be positive (got %d)",
			cfg.Name, cfg.SampleCapacity)
	}
	if cfg.BudgetFraction < 0 || cfg.BudgetFraction > 1 {
		return errors.Errorf("framehud: custom metric %q: BudgetFraction must be in [0, 1] (got %v)",
			cfg.Name, cfg.BudgetFraction)
	}
	o.CustomMetrics = append(o.CustomMetrics, cfg)
	return nil
}

// EnsureDefaults fills in default values for unset options.
func (o *Options) EnsureDefaults() *Options {
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.SampleWindow == 0 {
		o.SampleWindow = 100 * time.Millisecond
	}
	if o.DefaultFrameRate == 0 {
		o.DefaultFrameRate = 60
	}
	if o.MaxDisplayedFrameRate == 0 {
		o.MaxDisplayedFrameRate = 120
	}
	if o.DecimalDigits == 0 {
		o.DecimalDigits = 1
	}
	if o.FrameHistoryLength == 0 {
		o.FrameHistoryLength = 30
	}
	if o.SceneStatCapacity == 0 {
		o.SceneStatCapacity = 30
	}
	if o.Window.Distance == 0 {
		o.Window.Distance = 2
	}
	if o.Window.Scale == 0 {
		o.Window.Scale = 0.004
	}
	if o.Window.FollowSpeed == 0 {
		o.Window.FollowSpeed = 5
	}
	var zero Color
	if o.Palette.Background == zero {
		o.Palette = Palette{
			Background:   Color{R: 0.09, G: 0.09, B: 0.11, A: 0.9},
			Text:         Color{R: 1, G: 1, B: 1, A: 1},
			Neutral:      Color{R: 0.7, G: 0.7, B: 0.7, A: 1},
			WithinBudget: Color{R: 0.12, G: 0.8, B: 0.25, A: 1},
			OverBudget:   Color{R: 0.9, G: 0.2, B: 0.15, A: 1},
			TargetFrame:  Color{R: 0.12, G: 0.8, B: 0.25, A: 1},
			MissedFrame:  Color{R: 0.9, G: 0.2, B: 0.15, A: 1},
			BarUsed:      Color{R: 0.25, G: 0.55, B: 0.95, A: 1},
			BarPeak:      Color{R: 0.95, G: 0.7, B: 0.2, A: 0.8},
			BarLimit:     Color{R: 0.5, G: 0.5, B: 0.5, A: 0.4},
		}
	}
	return o
}

// Validate checks the options. Invalid configuration is a construction-time
// failure; it is never silently tolerated or patched mid-run.
func (o *Options) Validate() error {
	if o.SampleWindow <= 0 {
		return errors.Errorf("framehud: SampleWindow must be positive (got %s)", o.SampleWindow)
	}
	if o.DefaultFrameRate <= 0 {
		return errors.Errorf("framehud: DefaultFrameRate must be positive (got %d)", o.DefaultFrameRate)
	}
	if o.MaxDisplayedFrameRate < o.DefaultFrameRate {
		return errors.Errorf("framehud: MaxDisplayedFrameRate %d is below DefaultFrameRate %d",
			o.MaxDisplayedFrameRate, o.DefaultFrameRate)
	}
	if o.DecimalDigits < 0 || o.DecimalDigits > textfmt.MaxDigits {
		return errors.Errorf("framehud: DecimalDigits must be in [0, %d] (got %d)", textfmt.MaxDigits, o.DecimalDigits)
	}
	if o.FrameHistoryLength < 1 || o.FrameHistoryLength > 240 {
		return errors.Errorf("framehud: FrameHistoryLength must be in [1, 240] (got %d)", o.FrameHistoryLength)
	}
	if o.SceneStatCapacity < 1 {
		return errors.Errorf("framehud: SceneStatCapacity must be positive (got %d)", o.SceneStatCapacity)
	}
	if o.Atlas != nil {
		if err := o.Atlas.Validate(); err != nil {
			return err
		}
	}
	seen := make(map[string]struct{}, len(o.CustomMetrics))
	for i := range o.CustomMetrics {
		m := &o.CustomMetrics[i]
		if m.Name == "" {
			return errors.Errorf("framehud: custom metric %d has an empty name", i)
		}
		if _, ok := seen[m.Name]; ok {
			return errors.Errorf("framehud: duplicate custom metric name %q", m.Name)
		}
		seen[m.Name] = struct{}{}
		if m.SampleCapacity <= 0 {
			return errors.Errorf("framehud: custom metric %q: SampleCapacity must be positive (got %d)",
				m.Name, m.SampleCapacity)
		}
		if m.BudgetFraction < 0 || m.BudgetFraction > 1 {
			return errors.Errorf("framehud: custom metric %q: BudgetFraction must be in [0, 1] (got %v)",
				m.Name, m.BudgetFraction)
		}
	}
	return nil
}
