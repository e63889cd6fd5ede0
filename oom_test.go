// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

import "testing"

// A request the region cannot be grown to serve fails cleanly, leaves
// every invariant intact, and does not wedge the allocator - a smaller
// request right afterwards must still succeed. The cap leaves room for
// the sentinel prefix plus one full chunk, so the first Malloc(64) below
// is expected to succeed and only the oversized one should fail.
func TestMallocFailsCleanlyWhenRegionCannotGrow(t *testing.T) {
	region := NewMemRegion(firstBp + 4096)
	a, err := New(region, WithChunkSize(4096))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p, ok := a.Malloc(64)
	if !ok {
		t.Fatal("Malloc(64) should fit in the first chunk")
	}

	_, ok = a.Malloc(1 << 20)
	if ok {
		t.Fatal("Malloc(1<<20) should have failed: region is capped at firstBp+4096")
	}
	if err := a.Verify(); err != nil {
		t.Fatalf("Verify after failed Malloc: %v", err)
	}

	q, ok := a.Malloc(64)
	if !ok {
		t.Fatal("Malloc(64) after a failed oversized request should still succeed")
	}
	if q == p {
		t.Fatal("second Malloc(64) returned the first block's still-live pointer")
	}
	if err := a.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

// A region capped below even the sentinel prefix must fail at New, not
// panic or silently under-allocate.
func TestNewFailsWhenRegionTooSmallForSentinels(t *testing.T) {
	region := NewMemRegion(firstBp - 1)
	if _, err := New(region); err == nil {
		t.Fatal("New should fail when the region cannot hold the sentinel prefix")
	}
}

// Realloc's relocate path (Case E) must also fail cleanly, leaving the
// original block untouched, when the region is capped too low to host
// the grown copy.
func TestReallocRelocateFailsCleanlyWhenRegionCannotGrow(t *testing.T) {
	region := NewMemRegion(8192)
	a, err := New(region, WithChunkSize(4096))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p, ok := a.Malloc(40)
	if !ok {
		t.Fatal("Malloc(40) failed")
	}
	_, ok = a.Malloc(40)
	if !ok {
		t.Fatal("Malloc(40) for a second block failed")
	}

	_, ok = a.Realloc(p, 1<<20)
	if ok {
		t.Fatal("Realloc to 1<<20 should fail: region capped at 8192")
	}

	size, alloc := blockSize(a.region.Bytes(), p)
	if !alloc {
		t.Fatalf("p must remain allocated after a failed relocate, size=%d", size)
	}
	if err := a.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}
