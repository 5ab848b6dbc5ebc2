// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides bounded evicting FIFO ring buffers.
//
// Unlike a backpressuring queue, an evicting ring never refuses an insert:
// when the buffer is full, Insert displaces the oldest stored value and
// returns it to the caller. The buffer always holds the most recent values,
// up to its fixed capacity. This suits high-throughput telemetry, sampling,
// and last-N history scenarios where keeping up with producers matters more
// than keeping every value.
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	r := ring.NewRing[Event](1024)
//	r := ring.NewRingSeq[*Request](4096)
//
// Builder API selects the algorithm from hints:
//
//	r := ring.Build[Event](ring.New(1024))           // → Ring (counter-based)
//	r := ring.Build[Event](ring.New(1024).Strict())  // → RingSeq (slot-validated)
//
// # Basic Usage
//
// All rings share the same interface for inserting and removing:
//
//	r := ring.NewRing[int](1024)
//
//	// Insert (non-blocking, never fails)
//	value := 42
//	if evicted, ok := r.Insert(&value); ok {
//	    // Buffer was full - evicted is the displaced oldest value
//	    recycle(evicted)
//	}
//
//	// Remove (non-blocking)
//	elem, err := r.Remove()
//	if ring.IsWouldBlock(err) {
//	    // Buffer is empty - try again later
//	}
//
// # Common Patterns
//
// Last-N telemetry window:
//
//	// Producers record samples; the buffer keeps the newest 4096.
//	r := ring.NewRing[Sample](4096)
//
//	// Any number of producers
//	go func() {
//	    for s := range samples {
//	        r.Insert(&s) // evicted samples are simply dropped
//	    }
//	}()
//
//	// Periodic drain for reporting
//	func snapshot() []Sample {
//	    out := make([]Sample, 0, r.Cap())
//	    for {
//	        s, err := r.Remove()
//	        if err != nil {
//	            return out
//	        }
//	        out = append(out, s)
//	    }
//	}
//
// Pooled-object recycling (evicted values stay owned):
//
//	r := ring.NewRingPtr(1024)
//
//	buf := pool.Get()
//	if old, ok := r.Insert(unsafe.Pointer(buf)); ok {
//	    pool.Put((*Buffer)(old)) // eviction transfers ownership back
//	}
//
// # Ring Flavors
//
// Three flavors are available for different element kinds:
//
//	Ring[T] / RingSeq[T] - Generic type-safe rings for any type
//	RingPtr              - Ring for unsafe.Pointer (zero-copy hand-off)
//	RingIndirect         - Ring for uintptr values (pool indices, handles)
//
// # Algorithm Selection
//
// Two algorithms implement the same evicting contract:
//
// Ring (counter-based, default):
//
//	Two shared counters - head (oldest slot index) and usage (occupancy) -
//	mutated by compare-and-swap retry loops. A successful CAS on usage
//	reserves a free slot; a successful CAS on head claims the oldest slot
//	for eviction or removal. Minimal per-slot overhead (no metadata word).
//
// RingSeq (sequence-validated):
//
//	Per-slot sequence numbers validate every slot access against the
//	claiming commit, closing the window described under Ordering below.
//	Costs one extra word per slot.
//
// RingPtr and RingIndirect always use sequence validation: a torn or
// misrouted machine word there is a corrupted handle that nothing
// downstream can detect.
//
// # Ordering
//
// Operations that do not overlap in time observe FIFO order. Fully
// concurrent operations guarantee only that no value is duplicated or lost
// outside the eviction policy, and that occupancy is accurate at quiescent
// points. Strict linearizable FIFO across racing calls is not promised.
//
// In Ring, Insert computes its target slot from head and usage values read
// before the reserving CAS. Under heavy mixed insert/remove contention two
// inserters can transiently compute the same slot index before one of them
// commits. RingSeq validates the slot itself at the commit and does not have
// this window; prefer it when producers and consumers race continuously.
//
// # Capacity
//
// Capacity is exact, not rounded to a power of two: a ring of capacity C
// retains exactly the last C inserted values. Capacity 1 is a valid
// single-slot overwrite buffer. Constructors panic if capacity < 1.
//
// Ring exposes Len as an advisory occupancy snapshot. It is exact only at
// quiescent points; treat it as a hint while operations are in flight.
//
// # Error Handling
//
// Remove returns [ErrWouldBlock] when the buffer is empty. This is a
// control flow signal, not a failure, sourced from [code.hybscloud.com/iox]
// for ecosystem consistency. Insert has no failure mode at all: it either
// stores into free space or evicts and stores.
//
//	backoff := iox.Backoff{}
//	for {
//	    elem, err := r.Remove()
//	    if err == nil {
//	        backoff.Reset()
//	        process(elem)
//	        continue
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	ring.IsWouldBlock(err)  // true if buffer empty
//	ring.IsSemantic(err)    // true if control flow signal
//	ring.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// # Ownership
//
// A live value is reachable from exactly one place at a time: a slot, or
// the single caller that just removed or evicted it. Remove clears the
// vacated slot so the buffer does not pin removed values against garbage
// collection. For RingPtr, an evicted pointer belongs to the inserter that
// received it; the producer that originally enqueued it must not touch it
// again.
//
// # Thread Safety
//
// All rings are safe for any number of concurrent inserters and removers.
// No operation blocks or suspends; contended commits spin with CPU pause
// instructions ([code.hybscloud.com/spin]) and retry with freshly read
// state. There is no fairness or starvation-freedom bound.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but cannot
// observe happens-before relationships established through atomic memory
// orderings. The rings protect non-atomic slot data with acquire-release
// commits on separate variables, so the detector may report false positives
// on correct executions. Tests incompatible with race detection are
// excluded via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause instructions.
package ring
