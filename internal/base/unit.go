// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package base

// UnitKind describes the physical unit of a tracked metric. The kind drives
// both the conversion applied before display and the text suffix.
type UnitKind uint8

const (
	// UnitTime is a duration in milliseconds, displayed with a "ms" suffix.
	UnitTime UnitKind = iota
	// UnitBytes is a byte count, displayed in MB (or GB above 1024MB).
	UnitBytes
	// UnitByteRate is a throughput, displayed with a "kbps" suffix.
	UnitByteRate
	// UnitPercent is a ratio scaled to 0..100, displayed with a "%" suffix.
	UnitPercent
	// UnitFrequency is a rate, displayed with a "hz" suffix.
	UnitFrequency
	// UnitCount is a plain count (draw calls, batches); rendered as an
	// integer up to one thousand and abbreviated with "k" above it.
	UnitCount
	// UnitMeshCount is a vertex or triangle count; always abbreviated, with
	// "k" up to one million and "m" above it.
	UnitMeshCount
)

// String implements fmt.Stringer.
func (k UnitKind) String() string {
	switch k {
	case UnitTime:
		return "time"
	case UnitBytes:
		return "bytes"
	case UnitByteRate:
		return "byte-rate"
	case UnitPercent:
		return "percent"
	case UnitFrequency:
		return "frequency"
	case UnitCount:
		return "count"
	case UnitMeshCount:
		return "mesh-count"
	default:
		return "unknown"
	}
}

// Suffix returns the unit string appended after the digits for kinds that are
// rendered as scalar values. Kinds with magnitude-dependent suffixes (bytes,
// counts) return "" because the formatter selects the suffix itself.
func (k UnitKind) Suffix() string {
	switch k {
	case UnitTime:
		return "ms"
	case UnitByteRate:
		return "kbps"
	case UnitPercent:
		return "%"
	case UnitFrequency:
		return "hz"
	default:
		return ""
	}
}
