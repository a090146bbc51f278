// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package hostprobe

import (
	"time"

	"github.com/cockroachdb/crlib/crtime"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/procfs"
)

// ProcMemory reports whole-process resident memory from /proc, with the
// machine's total memory as the limit. Like RuntimeMemory it refreshes at
// most once per interval. Linux only; construction fails elsewhere.
type ProcMemory struct {
	fs       procfs.FS
	proc     procfs.Proc
	interval time.Duration

	last  crtime.Mono
	used  uint64
	total uint64
	ok    bool
}

// NewProcMemory constructs a /proc-backed memory probe for the current
// process. A non-positive interval selects the default of 250ms.
func NewProcMemory(interval time.Duration) (*ProcMemory, error) {
	if interval <= 0 {
		interval = defaultMemoryInterval
	}
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, errors.Wrap(err, "framehud: opening procfs")
	}
	proc, err := fs.Self()
	if err != nil {
		return nil, errors.Wrap(err, "framehud: resolving /proc/self")
	}
	p := &ProcMemory{fs: fs, proc: proc, interval: interval}
	p.refresh()
	if !p.ok {
		return nil, errors.New("framehud: /proc/self/status not readable")
	}
	return p, nil
}

func (p *ProcMemory) refresh() {
	now := crtime.NowMono()
	if p.last != 0 && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now
	status, err := p.proc.NewStatus()
	if err != nil {
		p.ok = false
		return
	}
	p.used = status.VmRSS
	p.ok = true
	if meminfo, err := p.fs.Meminfo(); err == nil && meminfo.MemTotal != nil {
		p.total = *meminfo.MemTotal * 1024
	}
}

// UsedBytes implements framehud.MemoryProvider.
func (p *ProcMemory) UsedBytes() (uint64, bool) {
	p.refresh()
	return p.used, p.ok
}

// LimitBytes implements framehud.MemoryProvider.
func (p *ProcMemory) LimitBytes() (uint64, bool) {
	p.refresh()
	return p.total, p.total > 0
}
