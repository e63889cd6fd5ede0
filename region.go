// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

import "fmt"

// Region is the external heap-extension primitive the policy engine
// treats as a collaborator: a single contiguous byte range that only
// ever grows. Grow extends the region by bytes (a positive multiple of
// D) and returns the offset at which the new bytes begin - the region's
// Hi() just before the call.
//
// Bytes returns the live backing slice for the whole committed region,
// [0, Hi()). The slice returned by one call is only valid until the next
// call to Grow, which may relocate the backing storage.
type Region interface {
	Lo() int
	Hi() int
	Grow(bytes int) (base int, err error)
	Bytes() []byte
}

var _ Region = (*memRegion)(nil)

// memRegion is a Region backed by a growable []byte, constructed with
// NewMemRegion; New does not create one itself. It is the single-contiguous-slice
// rendering of lldb.MemFiler's growth pattern (itself a page map), traded
// for one contiguous region instead of MemFiler's sparse pages, so
// growth here is a plain append.
type memRegion struct {
	buf     []byte
	maxSize int // 0 means unlimited; otherwise Grow fails past this size
}

// NewMemRegion returns a Region backed by process memory. maxSize, if
// positive, caps the region's total size, so Grow can be made to fail
// deterministically; 0 means unlimited (bounded only by the Go runtime's
// own memory).
func NewMemRegion(maxSize int) *memRegion {
	return &memRegion{maxSize: maxSize}
}

func (r *memRegion) Lo() int { return 0 }
func (r *memRegion) Hi() int { return len(r.buf) }

func (r *memRegion) Bytes() []byte { return r.buf }

func (r *memRegion) Grow(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("segalloc: grow size must be positive, got %d", n)
	}

	base := len(r.buf)
	if r.maxSize > 0 && base+n > r.maxSize {
		return 0, &OutOfMemoryError{Requested: n}
	}

	r.buf = append(r.buf, make([]byte, n)...)
	return base, nil
}
