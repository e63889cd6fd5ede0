// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

// Word and double-word sizes. All block sizes are a multiple of D; every
// payload pointer returned to a caller is a multiple of D.
const (
	W = 4     // word size, bytes
	D = 2 * W // double word size, bytes

	minAllocSize = 2 * D // header + footer + one aligned payload slot
	minFreeSize  = 4 * D // header + next + prev + unused + footer, rounded to D

	// K is the number of segregated size classes. The design requires
	// K >= 10; lldb's own FLTPowersOf2 canned table carries 14, so 16
	// comfortably covers the small hand-tuned classes plus the
	// power-of-two tail (see freelist.go's classOf).
	K = 16
)

// FitUnbounded, passed as FitDepth, makes the fit search scan every block
// in a size class (true best-fit within the classes visited). Any
// non-negative value caps how many additional candidates are examined
// after the first fit is found; zero degenerates to first-fit.
const FitUnbounded = -1

// config holds the policy engine's tunables. It is immutable once an
// Allocator is constructed by New - these are effectively build-time
// constants; rendering them as functional options fixed at construction
// time is the idiomatic Go equivalent of "build-time" without requiring a
// recompile per policy.
type config struct {
	fitDepth        int  // see FitUnbounded
	chunkSize       int  // minimum region growth per extension
	splitMalloc     int  // split threshold for malloc's splitter
	splitRealloc    int  // split threshold for realloc's in-place splitter
	reallocBuffer   int  // multiplier applied to n on Case E relocation
	altPlacement    bool // alternate left/right placement per extension
	prepartitionN   int  // number of small free blocks carved on init
	prepartitionSz  int  // size (bytes) of each pre-partitioned block
}

func defaultConfig() config {
	return config{
		fitDepth:      FitUnbounded,
		chunkSize:     1 << 12, // one page, matching lldb/memfiler.go's pgSize default
		splitMalloc:   minFreeSize,
		splitRealloc:  1 << 12,
		reallocBuffer: 1,
		altPlacement:  true,
	}
}

// Option configures an Allocator at construction time.
type Option func(*config)

// WithFitDepth bounds the best-fit scan: after a first candidate is found
// in a size class, at most depth further candidates are examined before
// settling. FitUnbounded (the default) means true best-fit within the
// classes searched; 0 means first-fit.
func WithFitDepth(depth int) Option {
	return func(c *config) { c.fitDepth = depth }
}

// WithChunkSize sets the minimum number of bytes requested from the
// Region on a fit-search failure. The actual growth is
// max(asize, chunkSize).
func WithChunkSize(bytes int) Option {
	return func(c *config) {
		if bytes > 0 {
			c.chunkSize = roundUp(bytes, D)
		}
	}
}

// WithSplitThresholds overrides the minimum remainder size (in bytes)
// required before malloc's and realloc's splitters bother carving off a
// free remainder rather than handing over a whole block.
func WithSplitThresholds(malloc, realloc int) Option {
	return func(c *config) {
		if malloc > 0 {
			c.splitMalloc = roundUp(malloc, D)
		}
		if realloc > 0 {
			c.splitRealloc = roundUp(realloc, D)
		}
	}
}

// WithReallocBuffer sets the multiplier applied to a Realloc's requested
// payload size when Case E (relocation) fires, pre-sizing the new block to
// dampen future reallocations. 1 (the default) means no buffering.
func WithReallocBuffer(multiplier int) Option {
	return func(c *config) {
		if multiplier >= 1 {
			c.reallocBuffer = multiplier
		}
	}
}

// WithAlternatingPlacement enables or disables the alternating
// left/right placement-side heuristic. It is enabled by default;
// disabling it always places the allocated piece at the low address of
// a split.
func WithAlternatingPlacement(enabled bool) Option {
	return func(c *config) { c.altPlacement = enabled }
}

// WithInitPrepartition enables the optional init pre-partition policy:
// immediately after the first region extension, the initial free block
// is carved into count free blocks of size bytes each, separated by
// permanently allocated spacers, plus one free remainder, all inserted
// into the index. Off by default (count == 0).
func WithInitPrepartition(count, size int) Option {
	return func(c *config) {
		if count > 0 && size >= minFreeSize {
			c.prepartitionN = count
			c.prepartitionSz = roundUp(size, D)
		}
	}
}

func roundUp(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d * d
}
