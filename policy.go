// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

import (
	"math"

	"github.com/cznic/mathutil"
)

// adjustSize rounds a requested payload size n up to an eight-byte
// aligned total block size. Sizes that would overflow the native int
// saturate at math.MaxInt rather than wrapping.
func adjustSize(n int) int {
	if n <= D {
		return 2 * D
	}

	total := n + D + (D - 1)
	if total < n { // overflow
		total = math.MaxInt
	}

	return D * (total / D)
}

// Malloc allocates a payload of n bytes and returns its eight-byte
// aligned offset, or (0, false) if the region could not be extended.
// n == 0 returns (0, true): a null pointer with no side effects.
func (a *Allocator) Malloc(n int) (int, bool) {
	if n <= 0 {
		return 0, true
	}

	asize := adjustSize(n)
	buf := a.region.Bytes()

	if bp, found := findFit(buf, &a.heads, asize, a.cfg.fitDepth); found {
		csize, _ := blockSize(buf, bp)
		flUnlink(buf, &a.heads, bp, csize)
		return a.place(buf, bp, csize, asize, a.placementSide()), true
	}

	// side is read before extend, which flips a.alt for the *next*
	// extension; this round's own carve still uses the side that was
	// in effect when the request came in.
	side := a.placementSide()
	grow := mathutil.Max(asize, a.cfg.chunkSize)
	bp, ok := a.extend(grow)
	if !ok {
		return 0, false
	}

	buf = a.region.Bytes() // extend may have relocated the backing slice
	csize, _ := blockSize(buf, bp)
	flUnlink(buf, &a.heads, bp, csize)
	return a.place(buf, bp, csize, asize, side), true
}

// Free deallocates the block at ptr, a payload offset previously
// returned by Malloc/Realloc, or does nothing if ptr is 0. Freeing any
// other invalid offset is undefined.
func (a *Allocator) Free(ptr int) {
	if ptr == 0 {
		return
	}

	buf := a.region.Bytes()
	size, _ := blockSize(buf, ptr)
	setBlockTags(buf, ptr, size, false)
	a.coalesce(ptr)
}

// Realloc resizes the block at ptr to hold n payload bytes. A null
// pointer behaves as Malloc, n == 0 behaves as Free; otherwise it tries,
// in order, shrink-in-place, grow-into-next, grow-into-previous,
// grow-into-both and finally relocate.
func (a *Allocator) Realloc(ptr int, n int) (int, bool) {
	if ptr == 0 {
		return a.Malloc(n)
	}

	if n == 0 {
		a.Free(ptr)
		return 0, true
	}

	asize := adjustSize(n)
	buf := a.region.Bytes()
	oldsize, _ := blockSize(buf, ptr)

	if asize <= oldsize {
		return a.reallocShrink(buf, ptr, oldsize, asize), true
	}

	nextBp := ptr + oldsize
	nextSize, nextAlloc := blockSize(buf, nextBp)
	nextFree := !nextAlloc
	if !nextFree {
		nextSize = 0
	}

	prevSize, prevAlloc := prevFooter(buf, ptr)
	prevFree := !prevAlloc
	prevBp := 0
	if prevFree {
		prevBp = prevBlock(ptr, prevSize)
	} else {
		prevSize = 0
	}

	// Cases B, C, D are tried in this order: the next block alone, then
	// the previous block alone, and Case D (both neighbours) only when
	// neither neighbour alone would have sufficed.
	switch {
	case nextFree && oldsize+nextSize >= asize:
		flUnlink(buf, &a.heads, nextBp, nextSize)
		combined := oldsize + nextSize
		return a.reallocGrow(buf, ptr, combined, asize), true

	case prevFree && prevSize+oldsize >= asize:
		flUnlink(buf, &a.heads, prevBp, prevSize)
		combined := prevSize + oldsize
		copyPayload(buf, prevBp, ptr, mathutil.Min(oldsize-D, n))
		return a.reallocGrow(buf, prevBp, combined, asize), true

	case prevFree && nextFree && prevSize+oldsize+nextSize >= asize:
		flUnlink(buf, &a.heads, prevBp, prevSize)
		flUnlink(buf, &a.heads, nextBp, nextSize)
		combined := prevSize + oldsize + nextSize
		copyPayload(buf, prevBp, ptr, mathutil.Min(oldsize-D, n))
		return a.reallocGrow(buf, prevBp, combined, asize), true
	}

	// Case E: relocate.
	newN := n
	if a.cfg.reallocBuffer > 1 {
		buffered := n * a.cfg.reallocBuffer
		if buffered > n { // overflow guard
			newN = buffered
		}
	}

	newPtr, ok := a.Malloc(newN)
	if !ok {
		return 0, false
	}

	buf = a.region.Bytes() // Malloc may have relocated the backing slice
	copyPayload(buf, newPtr, ptr, mathutil.Min(oldsize-D, n))
	a.Free(ptr)
	return newPtr, true
}

// reallocShrink implements Case A: keep ptr, optionally splitting off a
// free remainder when it is large enough (realloc's own, larger,
// threshold, to discourage split/coalesce churn).
func (a *Allocator) reallocShrink(buf []byte, ptr, oldsize, asize int) int {
	remainder := oldsize - asize
	if remainder < a.cfg.splitRealloc {
		return ptr
	}

	setBlockTags(buf, ptr, asize, true)
	freeBp := ptr + asize
	setBlockTags(buf, freeBp, remainder, false)
	a.coalesce(freeBp)
	return ptr
}

// reallocGrow implements Cases B/C/D: the combined block at bp is at
// least asize bytes; optionally split off a free remainder with the
// realloc threshold. Unlike malloc's splitter, realloc always keeps the
// allocated piece at the low address - the caller's pointer, if it
// moved at all, is anchored there.
func (a *Allocator) reallocGrow(buf []byte, bp, combined, asize int) int {
	remainder := combined - asize
	if remainder < a.cfg.splitRealloc {
		setBlockTags(buf, bp, combined, true)
		return bp
	}

	setBlockTags(buf, bp, asize, true)
	freeBp := bp + asize
	setBlockTags(buf, freeBp, remainder, false)
	a.coalesce(freeBp)
	return bp
}
