// Copyright 2025 The FrameHUD Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package textfmt converts metric values into fixed-capacity character
// buffers without heap allocation. All conversions use integer arithmetic:
// digits are produced least-significant-first into the destination buffer and
// reversed in place. Fixed-point values are rendered as the integer part, a
// '.', and the scaled fractional part padded with leading zeros to the
// configured digit count.
package textfmt

import "math"

// Placeholder is rendered for a value whose source never reported or was
// invalidated by the host.
const Placeholder = "-.-"

// MaxDigits is the largest supported decimal-digit count.
const MaxDigits = 9

var pow10 = [MaxDigits + 1]int64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9}

func clampDigits(digits int) int {
	if digits < 0 {
		return 0
	}
	if digits > MaxDigits {
		return MaxDigits
	}
	return digits
}

// BytesDisplay converts a raw byte count into display units: megabytes, or
// gigabytes once the megabyte value exceeds 1024.
func BytesDisplay(b uint64) (v float64, suffix string) {
	mb := float64(b) / (1024 * 1024)
	if mb > 1024 {
		return mb / 1024, "GB"
	}
	return mb, "MB"
}

// CountDisplay converts a plain count (draw calls, batches): values below one
// thousand display as-is with no suffix; from one thousand up they display in
// thousands with a "k" suffix.
func CountDisplay(v float64) (float64, string) {
	if v >= 1000 {
		return v / 1000, "k"
	}
	return v, ""
}

// MeshDisplay converts a vertex/triangle count: always at least thousands
// ("k"), switching to millions ("m") when the thousands value is itself above
// one thousand.
func MeshDisplay(v float64) (float64, string) {
	v /= 1000
	if v > 1000 {
		return v / 1000, "m"
	}
	return v, "k"
}

// Int writes v into dst as a plain integer and returns the number of bytes
// written.
func Int(dst []byte, v int64) int {
	n := 0
	if v < 0 {
		dst[0] = '-'
		n = 1
		v = -v
	}
	return n + appendUint(dst[n:], uint64(v))
}

// Fixed writes v into dst with the given number of decimal digits (truncated,
// not rounded, so the text agrees with the change gate) followed by suffix,
// and returns the number of bytes written. With zero digits no decimal point
// is written.
func Fixed(dst []byte, v float64, digits int, suffix string) int {
	digits = clampDigits(digits)
	n := 0
	if v < 0 {
		dst[0] = '-'
		n = 1
		v = -v
	}
	p := pow10[digits]
	scaled := int64(v * float64(p))
	n += appendUint(dst[n:], uint64(scaled/p))
	if digits > 0 {
		dst[n] = '.'
		n++
		n += appendUintPadded(dst[n:], uint64(scaled%p), digits)
	}
	return n + copy(dst[n:], suffix)
}

// Bytes writes a byte count into dst as megabytes or gigabytes with the
// given decimal digits, e.g. "512.0MB" or "1.5GB".
func Bytes(dst []byte, b uint64, digits int) int {
	v, suffix := BytesDisplay(b)
	return Fixed(dst, v, digits, suffix)
}

// Count writes a plain count into dst: an undecorated integer below one
// thousand, thousands with a "k" suffix otherwise.
func Count(dst []byte, v float64, digits int) int {
	cv, suffix := CountDisplay(v)
	if suffix == "" {
		return Int(dst, int64(cv))
	}
	return Fixed(dst, cv, digits, suffix)
}

// Mesh writes a vertex/triangle count into dst in thousands or millions,
// always with the configured decimal digits.
func Mesh(dst []byte, v float64, digits int) int {
	mv, suffix := MeshDisplay(v)
	return Fixed(dst, mv, digits, suffix)
}

// Unavailable writes the placeholder for a value that cannot be sampled.
func Unavailable(dst []byte) int {
	return copy(dst, Placeholder)
}

// Gate suppresses redundant formatting work. A value is only worth
// re-rendering when its truncated, scaled representation, floor(v * 10^d)
// computed after unit conversion, differs from the one last rendered.
// Sub-display-precision noise therefore never causes a rewrite.
type Gate struct {
	last   int64
	primed bool
}

// Changed reports whether v would display differently from the last rendered
// value, and records v as rendered if so. The first call always reports a
// change.
func (g *Gate) Changed(v float64, digits int) bool {
	scaled := int64(math.Floor(v * float64(pow10[clampDigits(digits)])))
	if g.primed && scaled == g.last {
		return false
	}
	g.last = scaled
	g.primed = true
	return true
}

// Reset unprimes the gate so the next Changed call reports a change.
func (g *Gate) Reset() {
	g.last = 0
	g.primed = false
}

// appendUint writes v's digits least-significant-first, then reverses them in
// place.
func appendUint(dst []byte, v uint64) int {
	n := 0
	for {
		dst[n] = '0' + byte(v%10)
		n++
		v /= 10
		if v == 0 {
			break
		}
	}
	reverse(dst[:n])
	return n
}

// appendUintPadded writes exactly width digits, padding with leading zeros.
func appendUintPadded(dst []byte, v uint64, width int) int {
	for i := 0; i < width; i++ {
		dst[i] = '0' + byte(v%10)
		v /= 10
	}
	reverse(dst[:width])
	return width
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
