// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

import "encoding/binary"

// This file is the only place in the package allowed to reinterpret raw
// region bytes as sizes, allocation bits or free-list links. Every other
// component navigates blocks exclusively through these helpers. A block
// is addressed by the byte offset of its payload (bp) within the
// region's backing slice, not by a Go pointer - see doc.go for why.

// getTag decodes the four-byte boundary tag at off: the block's total
// size (a multiple of eight) and its allocation bit.
func getTag(buf []byte, off int) (size int, alloc bool) {
	v := binary.BigEndian.Uint32(buf[off : off+4])
	return int(v &^ 1), v&1 != 0
}

// putTag encodes size and alloc into the four-byte boundary tag at off.
func putTag(buf []byte, off int, size int, alloc bool) {
	v := uint32(size)
	if alloc {
		v |= 1
	}
	binary.BigEndian.PutUint32(buf[off:off+4], v)
}

// headerOff returns the offset of bp's header.
func headerOff(bp int) int { return bp - W }

// footerOff returns the offset of bp's footer, given the block's size.
func footerOff(bp, size int) int { return bp + size - D }

// blockSize returns bp's size and allocation bit, read from its header.
func blockSize(buf []byte, bp int) (size int, alloc bool) {
	return getTag(buf, headerOff(bp))
}

// setBlockTags writes identical header and footer tags for the block at
// bp (invariant 1: header and footer always agree).
func setBlockTags(buf []byte, bp, size int, alloc bool) {
	putTag(buf, headerOff(bp), size, alloc)
	putTag(buf, footerOff(bp, size), size, alloc)
}

// nextBlock returns the payload offset of bp's right neighbour.
func nextBlock(buf []byte, bp int) int {
	size, _ := getTag(buf, headerOff(bp))
	return bp + size
}

// prevFooter returns the size and allocation bit recorded in the footer
// immediately to the left of bp's header - i.e. bp's left neighbour's
// boundary tag. This is always safe to read: the region's prologue
// guarantees a valid, allocated tag exists at this offset even for the
// very first real block.
func prevFooter(buf []byte, bp int) (size int, alloc bool) {
	return getTag(buf, bp-D)
}

// prevBlock returns the payload offset of bp's left neighbour, given the
// neighbour's size as read by prevFooter.
func prevBlock(bp, prevSize int) int { return bp - prevSize }

// Free-block intrusive links: an eight-byte next field at bp, an
// eight-byte prev field at bp+D. A zero value means nil, matching the
// convention that no valid payload offset is ever zero (the pad and
// prologue always precede it).

func getNext(buf []byte, bp int) int {
	return int(binary.BigEndian.Uint64(buf[bp : bp+8]))
}

func setNext(buf []byte, bp, v int) {
	binary.BigEndian.PutUint64(buf[bp:bp+8], uint64(v))
}

func getPrev(buf []byte, bp int) int {
	return int(binary.BigEndian.Uint64(buf[bp+D : bp+D+8]))
}

func setPrev(buf []byte, bp, v int) {
	binary.BigEndian.PutUint64(buf[bp+D:bp+D+8], uint64(v))
}

// copyPayload moves n payload bytes from srcBp to dstBp. Go's builtin
// copy is memmove-safe for overlapping slices regardless of direction,
// so a realloc that grows into a previous neighbour never needs a
// hand-rolled backwards loop.
func copyPayload(buf []byte, dstBp, srcBp, n int) {
	if n <= 0 {
		return
	}
	copy(buf[dstBp:dstBp+n], buf[srcBp:srcBp+n])
}
