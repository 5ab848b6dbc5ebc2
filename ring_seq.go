// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingSeq is a sequence-validated multi-producer multi-consumer evicting
// ring.
//
// Positions are absolute: tail counts claimed insert positions, head counts
// taken ones, and position p lives in slot p % capacity. Each slot carries
// a sequence number validating which position currently owns it:
//
//	seq == 2p     slot free for the inserter of position p
//	seq == 2p+1   slot holds the published value of position p
//
// Free marks are even and published marks odd, so the two states never
// collide, capacity 1 included. Removing position p recycles its slot with
// the free mark of position p+capacity.
//
// An inserter derives its slot from the same CAS commit that claims its
// position, so two inserters can never target one slot. When the ring is
// full the inserter of position p evicts the value of position p-capacity -
// which occupies the same physical slot - by winning a CAS on head against
// concurrent removers, then exchanges the slot in place.
//
// Use Ring for the counter-based protocol with no per-slot metadata.
//
// Memory: n slots (16+ bytes per slot)
type RingSeq[T any] struct {
	_        pad
	tail     atomix.Uint64 // Inserters claim positions here
	_        pad
	head     atomix.Uint64 // Removers and evictors take positions here
	_        pad
	buffer   []ringSeqSlot[T]
	capacity uint64
}

type ringSeqSlot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort // Pad to cache line
}

// NewRingSeq creates a new sequence-validated evicting ring.
// Capacity is exact (no power-of-2 rounding); a ring of capacity C retains
// the last C inserted values. Panics if capacity < 1.
func NewRingSeq[T any](capacity int) *RingSeq[T] {
	if capacity < 1 {
		panic("ring: capacity must be >= 1")
	}

	n := uint64(capacity)
	q := &RingSeq[T]{
		buffer:   make([]ringSeqSlot[T], n),
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(2 * i)
	}

	return q
}

// Insert adds an element to the ring. Never fails and never blocks.
// If the ring was full, the displaced oldest value is returned with
// ok=true and ownership of it transfers to the caller.
func (q *RingSeq[T]) Insert(elem *T) (evicted T, ok bool) {
	sw := spin.Wait{}

	// Claim a unique position. The slot index derives from this commit,
	// not from a separately read occupancy.
	var p uint64
	for {
		p = q.tail.LoadAcquire()
		if q.tail.CompareAndSwapAcqRel(p, p+1) {
			break
		}
		sw.Once()
	}

	slot := &q.buffer[p%q.capacity]
	for {
		seq := slot.seq.LoadAcquire()
		switch {
		case seq == 2*p:
			// Slot free for this position.
			slot.data = *elem
			slot.seq.StoreRelease(2*p + 1)
			var zero T
			return zero, false
		case seq == 2*(p-q.capacity)+1:
			// Slot still holds the value of position p-capacity. Evict it
			// if it is still the oldest; losing the head CAS means a
			// remover got there first, so re-validate.
			if head := q.head.LoadAcquire(); head == p-q.capacity {
				if q.head.CompareAndSwapAcqRel(head, head+1) {
					evicted = slot.data
					slot.data = *elem
					slot.seq.StoreRelease(2*p + 1)
					return evicted, true
				}
			}
		}
		// Previous-round inserter or remover still mid-flight on this slot.
		sw.Once()
	}
}

// Remove takes the oldest element out of the ring.
// Returns (zero-value, ErrWouldBlock) if the ring is empty. The empty
// observation is terminal for this call; it is not retried.
func (q *RingSeq[T]) Remove() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head%q.capacity]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(2*head+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.seq.StoreRelease(2 * (head + q.capacity))
				return elem, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		sw.Once()
	}
}

// Cap returns the ring capacity.
func (q *RingSeq[T]) Cap() int {
	return int(q.capacity)
}
