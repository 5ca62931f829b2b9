// Package updater coalesces bursts of connection path updates into
// single debounced commits. The queue discipline is a bounded
// single-producer/single-consumer ring: the producer is the geometry
// update path, the consumer is the debounce timer callback.
package updater

import (
	"sync/atomic"

	"patch-router/internal/patch"
)

// ring is a fixed-capacity lock-free SPSC queue. Push is safe from one
// goroutine, pop from one other; the atomic indices order the slot
// writes against the reads.
type ring struct {
	buf  []patch.PathUpdate
	mask uint64
	head atomic.Uint64 // next slot to pop
	tail atomic.Uint64 // next slot to push
}

func newRing(capacity int) *ring {
	if capacity < 2 {
		capacity = 2
	}
	// Round up to a power of two for cheap index masking.
	size := 2
	for size < capacity {
		size <<= 1
	}
	return &ring{buf: make([]patch.PathUpdate, size), mask: uint64(size - 1)}
}

// push appends an update. Returns false when the ring is full; the
// producer never blocks.
func (r *ring) push(u patch.PathUpdate) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = u
	r.tail.Store(tail + 1)
	return true
}

// pop removes the oldest update, if any.
func (r *ring) pop() (patch.PathUpdate, bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		return patch.PathUpdate{}, false
	}
	u := r.buf[head&r.mask]
	r.head.Store(head + 1)
	return u, true
}

func (r *ring) len() int {
	return int(r.tail.Load() - r.head.Load())
}
