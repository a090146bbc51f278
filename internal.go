// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package framehud

import (
	"github.com/framehud/framehud/internal/base"
	"github.com/framehud/framehud/internal/batch"
	"github.com/framehud/framehud/internal/budget"
	"github.com/framehud/framehud/internal/frametime"
	"github.com/framehud/framehud/internal/glyph"
	"github.com/framehud/framehud/internal/metric"
)

// Color exports the base.Color type.
type Color = base.Color

// Transform exports the base.Transform type.
type Transform = base.Transform

// UVRect exports the base.UVRect type.
type UVRect = base.UVRect

// Vec3 exports the base.Vec3 type.
type Vec3 = base.Vec3

// Pose exports the base.Pose type.
type Pose = base.Pose

// UnitKind exports the base.UnitKind type.
type UnitKind = base.UnitKind

// Exported UnitKind constants.
const (
	UnitTime      = base.UnitTime
	UnitBytes     = base.UnitBytes
	UnitByteRate  = base.UnitByteRate
	UnitPercent   = base.UnitPercent
	UnitFrequency = base.UnitFrequency
	UnitCount     = base.UnitCount
	UnitMeshCount = base.UnitMeshCount
)

// Logger exports the base.Logger type.
type Logger = base.Logger

// DefaultLogger exports the base.DefaultLogger type.
type DefaultLogger = base.DefaultLogger

// Atlas exports the glyph.Atlas type: the monospace font atlas the overlay
// lays text over.
type Atlas = glyph.Atlas

// Timing exports the frametime.Timing type: one frame's (CPU, GPU) durations
// in milliseconds.
type Timing = frametime.Timing

// BudgetTable exports the budget.Table type: per-quality-level ceilings used
// purely for display colorization.
type BudgetTable = budget.Table

// Backend exports the batch.Backend type: the rendering collaborator
// receiving the overlay's instance arrays and its one draw per tick.
type Backend = batch.Backend

// BatchStats exports the batch.Stats type.
type BatchStats = batch.Stats

// CombineRule exports the metric.CombineRule type.
type CombineRule = metric.CombineRule

// Exported CombineRule constants.
const (
	CombineAdd      = metric.Add
	CombineSubtract = metric.Subtract
)
