// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package segalloc implements a dynamic storage allocator over a single
contiguous, monotonically growable region of memory acquired from a
Region. It exposes the classic malloc/free/realloc triad and guarantees
eight-byte alignment of every returned payload pointer.

Region layout

The region begins with a one-word zero pad (so the first real block's
payload lands on an eight-byte boundary), then a permanently allocated
prologue block of size D (header+footer, no payload), then the payload
area, then a permanently allocated zero-size epilogue header:

	|<pad>|<prologue hdr>|<prologue ftr>|<block>...<block>|<epilogue hdr>|
	  W         W               W          ...                  W

The prologue and epilogue exist purely so that boundary-tag neighbour
lookups never need an "am I at an edge" branch: a lookup at either end of
the region always finds a tag with its allocation bit set.

Block shapes

Every block - allocated or free - carries a four-byte header at its base
and a four-byte footer at its end, each packing the block's total byte
size (always a multiple of eight) with an allocation bit in bit 0.

	allocated: | header | payload (>= D bytes) | footer |
	free:      | header | next (D) | prev (D) | unused | footer |

A free block's next/prev fields are only meaningful while the block is
free; they are overwritten with caller payload the moment it is
allocated. This is why the allocator never holds a Go pointer into the
region - it holds int byte offsets from the region base and reads/writes
typed fields through the helpers in block.go. A growable []byte may be
moved by append, which would silently invalidate a raw pointer; an offset
survives the move.

Segregated free index

Free blocks are kept in K doubly linked lists, bucketed by size class
(freelist.go). Fit search starts at the class for the requested size and
scans upward, applying a bounded best-fit policy (config.go's WithFitDepth).

Coalescing and splitting

Freeing a block always attempts to merge it with both neighbours
(coalesce.go) before reinserting it into the index. Satisfying an
allocation from an oversized free block splits it into an allocated piece
and a free remainder when the remainder is large enough to host the
free-block minimum (split.go); otherwise the whole block is handed over.
*/
package segalloc
