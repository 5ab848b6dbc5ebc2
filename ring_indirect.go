// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingIndirect is a sequence-validated MPMC evicting ring for uintptr
// values.
//
// RingIndirect passes indices or handles instead of full objects: pool
// slots, file handles, compact record ids. An evicted handle is returned
// to the inserter so the resource behind it can be released or recycled.
//
// Uses the same position/sequence protocol as RingSeq; see its
// documentation for the algorithm.
//
// Memory: n slots, 16 bytes payload per slot padded to a cache line
type RingIndirect struct {
	_        pad
	tail     atomix.Uint64 // Inserters claim positions here
	_        pad
	head     atomix.Uint64 // Removers and evictors take positions here
	_        pad
	buffer   []ringIndirectSlot
	capacity uint64
}

type ringIndirectSlot struct {
	seq  atomix.Uint64
	data uintptr
	_    [64 - 16]byte // Pad to cache line
}

// NewRingIndirect creates a new evicting ring for uintptr values.
// Capacity is exact (no power-of-2 rounding). Panics if capacity < 1.
func NewRingIndirect(capacity int) *RingIndirect {
	if capacity < 1 {
		panic("ring: capacity must be >= 1")
	}

	n := uint64(capacity)
	q := &RingIndirect{
		buffer:   make([]ringIndirectSlot, n),
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(2 * i)
	}

	return q
}

// Insert adds a value to the ring. Never fails and never blocks.
// If the ring was full, the displaced oldest value is returned with
// ok=true.
func (q *RingIndirect) Insert(elem uintptr) (evicted uintptr, ok bool) {
	sw := spin.Wait{}

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
			slot.data = elem
			slot.seq.StoreRelease(2*p + 1)
			return 0, false
		case seq == 2*(p-q.capacity)+1:
			if head := q.head.LoadAcquire(); head == p-q.capacity {
				if q.head.CompareAndSwapAcqRel(head, head+1) {
					evicted = slot.data
					slot.data = elem
					slot.seq.StoreRelease(2*p + 1)
					return evicted, true
				}
			}
		}
		sw.Once()
	}
}

// Remove takes the oldest value out of the ring.
// Returns (0, ErrWouldBlock) if the ring is empty.
func (q *RingIndirect) Remove() (uintptr, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head%q.capacity]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(2*head+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				slot.data = 0
				slot.seq.StoreRelease(2 * (head + q.capacity))
				return elem, nil
			}
		} else if diff < 0 {
			return 0, ErrWouldBlock
		}
		sw.Once()
	}
}

// Cap returns the ring capacity.
func (q *RingIndirect) Cap() int {
	return int(q.capacity)
}
