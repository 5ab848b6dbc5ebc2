// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Ring is a counter-based multi-producer multi-consumer evicting ring.
//
// Two shared counters drive the protocol: head is the index of the oldest
// occupied slot, usage the occupancy count. Every operation is a
// read-compute-commit loop: read both counters, pick a path from the
// observed state, commit with a single CAS, and retry from fresh state on
// conflict. A successful CAS on usage reserves the next free slot
// (not-full insert); a successful CAS on head claims the oldest slot
// (eviction and removal). Removal decrements usage only after its head
// commit.
//
// Ordering caveat: the target slot of a not-full insert is computed from
// counter values read before the reserving commit. Under heavy mixed
// insert/remove contention two inserters can transiently compute the same
// slot index before one of them commits. Use RingSeq where per-slot
// validation is required.
//
// Memory: n slots with no per-slot metadata
type Ring[T any] struct {
	_        pad
	head     atomix.Uint64 // Oldest occupied slot index, in [0, capacity)
	_        pad
	usage    atomix.Int64 // Occupancy, in [0, capacity]
	_        pad
	buffer   []T
	capacity uint64
}

// NewRing creates a new counter-based evicting ring.
// Capacity is exact (no power-of-2 rounding); a ring of capacity C retains
// the last C inserted values. Panics if capacity < 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic("ring: capacity must be >= 1")
	}

	return &Ring[T]{
		buffer:   make([]T, capacity),
		capacity: uint64(capacity),
	}
}

// Insert adds an element to the ring. Never fails and never blocks.
// If the ring was full, the displaced oldest value is returned with
// ok=true and ownership of it transfers to the caller.
func (r *Ring[T]) Insert(elem *T) (evicted T, ok bool) {
	sw := spin.Wait{}
	for {
		u := r.usage.LoadRelaxed()
		h := r.head.LoadAcquire()

		if uint64(u) < r.capacity {
			// Reserve the next free slot. The successful CAS grants this
			// call exclusive write access to buffer[(h+u) % capacity].
			if !r.usage.CompareAndSwapAcqRel(u, u+1) {
				sw.Once()
				continue
			}
			r.buffer[(h+uint64(u))%r.capacity] = *elem
			var zero T
			return zero, false
		}

		// Full: claim the oldest slot by advancing head past it, then
		// exchange its content in place. The slot of the evicted value is
		// also the slot of the newest logical position.
		if !r.head.CompareAndSwapAcqRel(h, (h+1)%r.capacity) {
			sw.Once()
			continue
		}
		evicted = r.buffer[h]
		r.buffer[h] = *elem
		return evicted, true
	}
}

// Remove takes the oldest element out of the ring.
// Returns (zero-value, ErrWouldBlock) if the ring is empty. The empty
// observation is terminal for this call; it is not retried.
func (r *Ring[T]) Remove() (T, error) {
	sw := spin.Wait{}
	for {
		u := r.usage.LoadAcquire()
		h := r.head.LoadAcquire()

		if u == 0 {
			var zero T
			return zero, ErrWouldBlock
		}

		if !r.head.CompareAndSwapAcqRel(h, (h+1)%r.capacity) {
			sw.Once()
			continue
		}
		// Usage is released only after the head commit; the order is part
		// of the protocol's invariants.
		r.usage.AddAcqRel(-1)

		elem := r.buffer[h]
		var zero T
		r.buffer[h] = zero
		return elem, nil
	}
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return int(r.capacity)
}

// Len returns an advisory occupancy snapshot.
// Exact at quiescent points; a hint while operations are in flight.
func (r *Ring[T]) Len() int {
	return int(r.usage.LoadAcquire())
}
