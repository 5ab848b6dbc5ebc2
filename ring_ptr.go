// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// RingPtr is a sequence-validated MPMC evicting ring for unsafe.Pointer
// values.
//
// RingPtr passes pointers without copying for zero-copy hand-off between
// goroutines. Eviction hands the displaced pointer back to the inserter,
// which makes the flavor a natural fit for pooled objects: the inserter
// that receives an evicted pointer is responsible for recycling it.
//
// The slot pointer is a plain field protected by the slot sequence, so
// stored objects stay visible to the garbage collector.
//
// Uses the same position/sequence protocol as RingSeq; see its
// documentation for the algorithm.
//
// Memory: n slots, 16 bytes payload per slot padded to a cache line
type RingPtr struct {
	_        pad
	tail     atomix.Uint64 // Inserters claim positions here
	_        pad
	head     atomix.Uint64 // Removers and evictors take positions here
	_        pad
	buffer   []ringPtrSlot
	capacity uint64
}

type ringPtrSlot struct {
	seq  atomix.Uint64
	data unsafe.Pointer
	_    [64 - 16]byte // Pad to cache line
}

// NewRingPtr creates a new evicting ring for unsafe.Pointer values.
// Capacity is exact (no power-of-2 rounding). Panics if capacity < 1.
func NewRingPtr(capacity int) *RingPtr {
	if capacity < 1 {
		panic("ring: capacity must be >= 1")
	}

	n := uint64(capacity)
	q := &RingPtr{
		buffer:   make([]ringPtrSlot, n),
		capacity: n,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(2 * i)
	}

	return q
}

// Insert adds a pointer to the ring. Never fails and never blocks.
// If the ring was full, the displaced oldest pointer is returned with
// ok=true; ownership of it transfers to the caller.
func (q *RingPtr) Insert(elem unsafe.Pointer) (evicted unsafe.Pointer, ok bool) {
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
			return nil, false
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

// Remove takes the oldest pointer out of the ring.
// Returns (nil, ErrWouldBlock) if the ring is empty.
func (q *RingPtr) Remove() (unsafe.Pointer, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head%q.capacity]
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(2*head+1)

		if diff == 0 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				slot.data = nil
				slot.seq.StoreRelease(2 * (head + q.capacity))
				return elem, nil
			}
		} else if diff < 0 {
			return nil, ErrWouldBlock
		}
		sw.Once()
	}
}

// Cap returns the ring capacity.
func (q *RingPtr) Cap() int {
	return int(q.capacity)
}
