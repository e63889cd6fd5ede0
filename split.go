// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

// placement selects which side of a split gets the allocated piece.
// Neither side affects correctness; it is purely a fragmentation-
// mitigation heuristic, so it is a policy.go/config.go concern, not
// something split itself decides.
type placement int

const (
	placeLeft  placement = iota // allocated piece at the low address
	placeRight                  // free piece at the low address
)

// split carves an asize-byte allocated piece out of a csize-byte free
// block at bp, according to side, when the remainder is large enough to
// host a free block of its own (>= threshold); otherwise the whole block
// is handed over unsplit. It returns the payload offset of the allocated
// piece. The free remainder, if any, is inserted into heads - callers
// must have already unlinked bp itself before calling split.
func split(buf []byte, heads *[K]int, bp, csize, asize, threshold int, side placement) int {
	remainder := csize - asize
	if remainder < threshold {
		setBlockTags(buf, bp, csize, true)
		return bp
	}

	switch side {
	case placeRight:
		setBlockTags(buf, bp, remainder, false)
		flInsert(buf, heads, bp, remainder)
		allocBp := bp + remainder
		setBlockTags(buf, allocBp, asize, true)
		return allocBp

	default: // placeLeft
		setBlockTags(buf, bp, asize, true)
		freeBp := bp + asize
		setBlockTags(buf, freeBp, remainder, false)
		flInsert(buf, heads, freeBp, remainder)
		return bp
	}
}
