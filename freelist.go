// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

import "github.com/cznic/mathutil"

// The segregated free index: K doubly linked lists of free blocks,
// bucketed by size class. heads[i] holds the payload offset of the head
// of list i, or 0 if the list is empty. The lists themselves live inside
// the free blocks' own next/prev link fields (block.go) - there is no
// separate list-node allocation.
//
// classOf uses five hand-tuned small thresholds, then a power-of-two
// tail sized by the highest set bit, the way cznic/memory's allocator
// classes its own size-doubling slots.
func classOf(size int) int {
	switch {
	case size <= 32:
		return 0
	case size <= 48:
		return 1
	case size <= 64:
		return 2
	case size <= 96:
		return 3
	case size <= 128:
		return 4
	default:
		c := 4 + mathutil.BitLen(size>>7)
		if c > K-1 {
			c = K - 1
		}
		return c
	}
}

// flInsert prepends bp to the size class selected for size. O(1).
func flInsert(buf []byte, heads *[K]int, bp, size int) {
	class := classOf(size)
	head := heads[class]
	setPrev(buf, bp, 0)
	setNext(buf, bp, head)
	if head != 0 {
		setPrev(buf, head, bp)
	}
	heads[class] = bp
}

// flUnlink removes bp from the size class selected for size. O(1).
func flUnlink(buf []byte, heads *[K]int, bp, size int) {
	class := classOf(size)
	p := getPrev(buf, bp)
	n := getNext(buf, bp)
	if p != 0 {
		setNext(buf, p, n)
	} else {
		heads[class] = n
	}
	if n != 0 {
		setPrev(buf, n, p)
	}
}

// findFit implements a bounded best-fit search: starting at the class
// selected for asize, scan classes upward; within each list, track the
// smallest block that still fits, returning immediately on an exact
// match. depth, if >= 0, caps how many further candidates are examined
// once a first fit is found in a list (0 == first-fit, matching
// FitUnbounded's documented degenerate case at the other extreme).
func findFit(buf []byte, heads *[K]int, asize, depth int) (bp int, found bool) {
	for class := classOf(asize); class < K; class++ {
		best, bestSize, scanned := 0, 0, 0
		for bp := heads[class]; bp != 0; bp = getNext(buf, bp) {
			size, _ := blockSize(buf, bp)
			if size == asize {
				return bp, true
			}
			if size < asize {
				continue
			}
			if best == 0 || size < bestSize {
				best, bestSize = bp, size
			}
			if depth >= 0 {
				scanned++
				if scanned > depth {
					break
				}
			}
		}
		if best != 0 {
			return best, true
		}
	}
	return 0, false
}
