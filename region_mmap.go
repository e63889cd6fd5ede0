// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux || darwin

package segalloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var _ Region = (*mmapRegion)(nil)

// mmapRegion is a Region backed by an anonymous mmap mapping, grown by
// mapping a larger anonymous region and copying the old content across.
// It is a concrete stand-in for an sbrk-style region-extension primitive,
// grounded on lldb.OSFiler's shape (wrap a minimal OS-level resource
// behind exactly the surface the allocator needs, nothing more).
//
// mmapRegion never shrinks and never returns memory to the operating
// system; Close releases the final mapping and must be called when the
// Allocator using it is discarded.
type mmapRegion struct {
	buf []byte
}

// NewMmapRegion returns a Region backed by anonymous, zero-filled pages
// obtained directly from the operating system rather than the Go
// allocator/GC.
func NewMmapRegion() *mmapRegion {
	return &mmapRegion{}
}

func (r *mmapRegion) Lo() int { return 0 }
func (r *mmapRegion) Hi() int { return len(r.buf) }

func (r *mmapRegion) Bytes() []byte { return r.buf }

func (r *mmapRegion) Grow(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("segalloc: grow size must be positive, got %d", n)
	}

	newSize := len(r.buf) + n
	newBuf, err := unix.Mmap(-1, 0, newSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, &OutOfMemoryError{Requested: n}
	}

	base := len(r.buf)
	copy(newBuf, r.buf)
	if r.buf != nil {
		unix.Munmap(r.buf)
	}
	r.buf = newBuf
	return base, nil
}

// Close unmaps the region's backing pages. It is a no-op if the region
// was never grown.
func (r *mmapRegion) Close() error {
	if r.buf == nil {
		return nil
	}

	err := unix.Munmap(r.buf)
	r.buf = nil
	return err
}
