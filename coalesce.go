// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

// coalesce merges the free block at bp with any adjacent free neighbours
// and reinserts the result into the free index, returning the payload
// offset of the (possibly merged) block. This is lldb.Allocator.free2's
// four-case switch (isolated / right join / left join / middle join)
// reworked from handle arithmetic to boundary-tag navigation.
//
// bp must already carry free (alloc-bit clear) boundary tags; coalesce
// does not clear them itself, since it is also used to settle a brand
// new free block produced by region extension.
func (a *Allocator) coalesce(bp int) int {
	buf := a.region.Bytes()
	size, _ := blockSize(buf, bp)

	prevSize, prevAlloc := prevFooter(buf, bp)
	nextBp := bp + size
	nextSize, nextAlloc := blockSize(buf, nextBp)

	switch {
	case prevAlloc && nextAlloc:
		flInsert(buf, &a.heads, bp, size)
		return bp

	case prevAlloc && !nextAlloc:
		flUnlink(buf, &a.heads, nextBp, nextSize)
		size += nextSize
		setBlockTags(buf, bp, size, false)
		flInsert(buf, &a.heads, bp, size)
		return bp

	case !prevAlloc && nextAlloc:
		pBp := prevBlock(bp, prevSize)
		flUnlink(buf, &a.heads, pBp, prevSize)
		size += prevSize
		setBlockTags(buf, pBp, size, false)
		flInsert(buf, &a.heads, pBp, size)
		return pBp

	default: // !prevAlloc && !nextAlloc
		pBp := prevBlock(bp, prevSize)
		flUnlink(buf, &a.heads, pBp, prevSize)
		flUnlink(buf, &a.heads, nextBp, nextSize)
		size += prevSize + nextSize
		setBlockTags(buf, pBp, size, false)
		flInsert(buf, &a.heads, pBp, size)
		return pBp
	}
}
