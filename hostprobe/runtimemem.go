// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hostprobe

import (
	"math"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/cockroachdb/crlib/crtime"
)

// RuntimeMemory reports the Go runtime's heap usage. ReadMemStats stops the
// world, so the probe refreshes at most once per interval and serves cached
// values in between; at a display granularity of one decimal digit this is
// invisible.
type RuntimeMemory struct {
	interval time.Duration

	last     crtime.Mono
	used     uint64
	limit    uint64
	limitSet bool
}

const defaultMemoryInterval = 250 * time.Millisecond

// NewRuntimeMemory constructs a runtime memory probe. A non-positive
// interval selects the default of 250ms.
func NewRuntimeMemory(interval time.Duration) *RuntimeMemory {
	if interval <= 0 {
		interval = defaultMemoryInterval
	}
	return &RuntimeMemory{interval: interval}
}

func (r *RuntimeMemory) refresh() {
	now := crtime.NowMono()
	if r.last != 0 && now.Sub(r.last) < r.interval {
		return
	}
	r.last = now
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	r.used = ms.HeapAlloc
	if limit := debug.SetMemoryLimit(-1); limit < math.MaxInt64 {
		r.limit = uint64(limit)
		r.limitSet = true
	}
}

// UsedBytes implements framehud.MemoryProvider.
func (r *RuntimeMemory) UsedBytes() (uint64, bool) {
	r.refresh()
	return r.used, true
}

// LimitBytes implements framehud.MemoryProvider. The limit is only available
// when the process runs with a soft memory limit (GOMEMLIMIT).
func (r *RuntimeMemory) LimitBytes() (uint64, bool) {
	r.refresh()
	return r.limit, r.limitSet
}
