// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

import (
	"fmt"
	"sort"

	"github.com/cznic/sortutil"
)

// Verify checks every structural invariant of the region and returns nil
// iff all of them hold. It is promoted from lldb/falloc_test.go's
// pAllocator paranoid-checker, which ran the same kind of
// linear-scan-vs-free-list cross-check after every mutating call during
// testing; here it is a public, on-demand operation rather than an
// always-on test harness.
//
// Verify is O(n) in the number of blocks plus free-list entries. It is
// meant for tests and diagnostics, not for routine use after every call.
func (a *Allocator) Verify() error {
	buf := a.region.Bytes()
	if len(buf) < firstBp {
		return &InvariantViolationError{Detail: "region too small to hold sentinels"}
	}

	if size, alloc := getTag(buf, W); size != D || !alloc {
		return &InvariantViolationError{Detail: "prologue header corrupt"}
	}
	if size, alloc := getTag(buf, 2*W); size != D || !alloc {
		return &InvariantViolationError{Detail: "prologue footer corrupt"}
	}
	epilogueOff := len(buf) - W
	if size, alloc := getTag(buf, epilogueOff); size != 0 || !alloc {
		return &InvariantViolationError{Detail: "epilogue header corrupt"}
	}

	var linearFree sortutil.Int64Slice
	prevWasFree := false
	var walkErr error

	a.walkBlocks(func(bp, size int, alloc bool) bool {
		hSize, hAlloc := getTag(buf, headerOff(bp))
		fSize, fAlloc := getTag(buf, footerOff(bp, size))
		if hSize != fSize || hAlloc != fAlloc {
			walkErr = &InvariantViolationError{Detail: fmt.Sprintf("header/footer mismatch at %d", bp)}
			return false
		}
		if size <= 0 || size%D != 0 {
			walkErr = &InvariantViolationError{Detail: fmt.Sprintf("size %d at %d is not a positive multiple of %d", size, bp, D)}
			return false
		}
		if alloc && size < minAllocSize {
			walkErr = &InvariantViolationError{Detail: fmt.Sprintf("allocated block at %d smaller than minimum", bp)}
			return false
		}
		if !alloc && size < minFreeSize {
			walkErr = &InvariantViolationError{Detail: fmt.Sprintf("free block at %d smaller than minimum", bp)}
			return false
		}
		if !alloc && prevWasFree {
			walkErr = &InvariantViolationError{Detail: fmt.Sprintf("two adjacent free blocks at/before %d", bp)}
			return false
		}
		if !alloc {
			linearFree = append(linearFree, int64(bp))
		}
		prevWasFree = !alloc
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	var listFree sortutil.Int64Slice
	for class := 0; class < K; class++ {
		for bp := a.heads[class]; bp != 0; bp = getNext(buf, bp) {
			if bp < firstBp || bp >= epilogueOff {
				return &InvariantViolationError{Detail: fmt.Sprintf("free list %d holds out-of-range offset %d", class, bp)}
			}

			size, alloc := blockSize(buf, bp)
			if alloc {
				return &InvariantViolationError{Detail: fmt.Sprintf("free list %d holds allocated block at %d", class, bp)}
			}
			if classOf(size) != class {
				return &InvariantViolationError{Detail: fmt.Sprintf("block at %d of size %d is in list %d, not %d", bp, size, class, classOf(size))}
			}

			listFree = append(listFree, int64(bp))
		}
	}

	sort.Sort(linearFree)
	sort.Sort(listFree)
	if len(linearFree) != len(listFree) {
		return &InvariantViolationError{Detail: fmt.Sprintf("%d free blocks by linear scan, %d by free list walk", len(linearFree), len(listFree))}
	}
	for i := range linearFree {
		if linearFree[i] != listFree[i] {
			return &InvariantViolationError{Detail: "free list contents do not match the set of free blocks"}
		}
	}

	return nil
}
