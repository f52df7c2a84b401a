// Defines Allocator, the opaque external memory allocation oracle. The
// reference implementation encodes "no allocation has happened yet" as
// lastLoc == -1, a sentinel that is legal for a signed address field in C++
// but awkward and error-prone as a zero-value convention in Go; this
// rewrite uses an explicit initialized bool instead, which cannot be
// silently confused with a real address 0.

package sim

import "fmt"

// Allocator hands out addresses in a fixed-size arena using the reference
// algorithm: the first request always succeeds at address 0; each
// subsequent request succeeds at the next block-aligned address if two
// block-widths still fit past the last granted address, otherwise it wraps
// back around to address 0. Allocate never fails; ok is always true and
// exists so callers read like every other opaque-oracle call in this
// package.
type Allocator struct {
	totalBytes  int64
	blockBytes  int64
	lastAddr    int64
	initialized bool
}

// NewAllocator creates an Allocator over an arena of totalBytes, doled out
// blockBytes at a time.
func NewAllocator(totalBytes, blockBytes int64) *Allocator {
	return &Allocator{totalBytes: totalBytes, blockBytes: blockBytes}
}

// Allocate returns the next address.
func (a *Allocator) Allocate() (addr int64, ok bool) {
	if !a.initialized {
		a.initialized = true
		a.lastAddr = 0
		return 0, true
	}
	if a.lastAddr+a.blockBytes*2 < a.totalBytes {
		a.lastAddr += a.blockBytes
		return a.lastAddr, true
	}
	a.lastAddr = 0
	return 0, true
}

// FormatAddr renders an address the way the reference log lines do:
// zero-padded hex with a leading "0x".
func FormatAddr(addr int64) string {
	return fmt.Sprintf("0x%08X", addr)
}
