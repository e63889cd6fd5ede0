// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

// Allocator is the public API's single instance: the region bounds,
// sentinels and the K size-class list heads. Its zero value is not
// usable; construct one with New. An Allocator is not safe for
// concurrent use - unlike lldb.Allocator (which wraps a Filer that may
// itself serialize access) this type assumes a single goroutine
// throughout its lifetime.
type Allocator struct {
	region Region
	cfg    config
	heads  [K]int // segregated free list heads, by size class
	alt    bool   // current placement side for the alternating policy
}

// firstBp is the payload offset of the first block that can ever exist:
// right after the one-word pad and the D-byte prologue.
const firstBp = 4 * W

// New creates an Allocator over region, writing the initial pad,
// prologue and epilogue sentinels. region must be freshly constructed
// (zero sized); passing one already grown by another Allocator is
// undefined.
func New(region Region, opts ...Option) (*Allocator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Allocator{region: region, cfg: cfg}
	if err := a.initSentinels(); err != nil {
		return nil, err
	}

	if cfg.prepartitionN > 0 {
		a.prepartition(cfg.prepartitionN, cfg.prepartitionSz)
	}

	return a, nil
}

func (a *Allocator) initSentinels() error {
	// pad(W) + prologue header(W) + prologue footer(W) + epilogue
	// header(W) == 4W == 2D bytes, exactly mirroring the classic
	// four-word heap prefix lldb's own sentinel-free design avoids only
	// because a Filer has no in-memory edges to protect.
	if _, err := a.region.Grow(firstBp); err != nil {
		return err
	}

	buf := a.region.Bytes()
	putTag(buf, W, D, true)   // prologue header
	putTag(buf, 2*W, D, true) // prologue footer
	putTag(buf, 3*W, 0, true) // epilogue header
	return nil
}

// prepartition implements the optional init pre-partition policy: carve
// the initial free block into count free blocks of size bytes, plus one
// free remainder, all inserted into the index.
//
// A free block can never directly border another free block - they
// would always be coalesced into one - so the count carved blocks are
// separated by a minimal permanently allocated spacer. The spacers are
// never freed; they are the fixed cost of having count independently
// indexed free blocks instead of one large one.
func (a *Allocator) prepartition(count, size int) {
	total := count*(size+minAllocSize) + minFreeSize // room for count spacer pairs plus a remainder block
	bp, ok := a.extend(total)
	if !ok {
		return
	}

	buf := a.region.Bytes()
	blockTotal, _ := blockSize(buf, bp)
	flUnlink(buf, &a.heads, bp, blockTotal)

	for i := 0; i < count; i++ {
		setBlockTags(buf, bp, size, false)
		flInsert(buf, &a.heads, bp, size)
		bp += size
		blockTotal -= size

		setBlockTags(buf, bp, minAllocSize, true) // spacer: keeps the next free block non-adjacent
		bp += minAllocSize
		blockTotal -= minAllocSize
	}

	if blockTotal > 0 {
		setBlockTags(buf, bp, blockTotal, false)
		flInsert(buf, &a.heads, bp, blockTotal)
	}
}

// extend grows the region by at least nbytes (rounded up to D), forms a
// new free block over the grown space, coalesces it with the block that
// used to border the epilogue (if that block was free) and flips the
// alternating-placement bit. It returns the payload offset of the
// resulting free block.
func (a *Allocator) extend(nbytes int) (int, bool) {
	nbytes = roundUp(nbytes, D)
	oldHi, err := a.region.Grow(nbytes)
	if err != nil {
		return 0, false
	}

	buf := a.region.Bytes()
	bp := oldHi
	setBlockTags(buf, bp, nbytes, false)
	putTag(buf, oldHi+nbytes-W, 0, true) // new epilogue header

	merged := a.coalesce(bp)

	if a.cfg.altPlacement {
		a.alt = !a.alt
	}

	return merged, true
}

// placementSide reports the side a split should favour right now. It
// must be read before any extend call that might flip a.alt, so that an
// extension's own carve uses the side in effect when the request was
// made, not the side the extension leaves behind for the next one.
func (a *Allocator) placementSide() placement {
	if a.cfg.altPlacement && a.alt {
		return placeRight
	}
	return placeLeft
}

// place removes bp from no list (callers must already have unlinked it),
// splits it per the configured malloc threshold and side, and returns
// the allocated piece's payload offset.
func (a *Allocator) place(buf []byte, bp, csize, asize int, side placement) int {
	return split(buf, &a.heads, bp, csize, asize, a.cfg.splitMalloc, side)
}

// AllocStats reports counts of the current region, grounded on
// lldb.AllocStats.
type AllocStats struct {
	RegionBytes int64 // total committed region size, including sentinels
	AllocBytes  int64 // bytes in allocated blocks, including their overhead
	FreeBytes   int64 // bytes in free blocks
	AllocBlocks int64 // number of allocated blocks
	FreeBlocks  int64 // number of free blocks
}

// Stats walks the region and reports AllocStats. It is O(n) in the
// number of blocks and intended for diagnostics, not the hot path.
func (a *Allocator) Stats() AllocStats {
	var s AllocStats
	buf := a.region.Bytes()
	s.RegionBytes = int64(len(buf))

	a.walkBlocks(func(_, size int, alloc bool) bool {
		if alloc {
			s.AllocBytes += int64(size)
			s.AllocBlocks++
		} else {
			s.FreeBytes += int64(size)
			s.FreeBlocks++
		}
		return true
	})

	return s
}

// walkBlocks visits every block between the prologue and the epilogue in
// address order, stopping early if fn returns false.
func (a *Allocator) walkBlocks(fn func(bp, size int, alloc bool) bool) {
	buf := a.region.Bytes()
	epilogueOff := len(buf) - W

	for bp := firstBp; bp < epilogueOff; {
		size, alloc := blockSize(buf, bp)
		if size <= 0 {
			return
		}
		if !fn(bp, size, alloc) {
			return
		}
		bp += size
	}
}
