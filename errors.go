// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package segalloc

import "fmt"

// OutOfMemoryError is returned by a Region when it cannot grow by the
// requested number of bytes. The allocator never retries; it surfaces the
// failure as a null (zero) payload pointer from Malloc/Realloc and makes no
// other state change.
type OutOfMemoryError struct {
	Requested int // bytes the caller tried to grow the region by
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("segalloc: out of memory: requested %d bytes", e.Requested)
}

// InvariantViolationError is returned only by (*Allocator).Verify. It never
// occurs in normal operation; seeing one indicates a bug in the allocator
// or memory corruption by a caller (a write past the end of its payload,
// a double free, a stale pointer reused after free).
type InvariantViolationError struct {
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return "segalloc: invariant violation: " + e.Detail
}
