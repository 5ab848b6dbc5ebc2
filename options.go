// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

// Options configures ring creation and algorithm selection.
type Options struct {
	// Performance/robustness hint
	strict bool // Per-slot sequence validation

	// Capacity (exact, no rounding)
	capacity int
}

// Builder creates rings with fluent configuration.
//
// Builder provides a fluent API for configuring and creating rings. The
// builder selects the algorithm from the Strict hint.
//
// Example:
//
//	// Counter-based ring (default, minimal per-slot overhead)
//	r := ring.Build[Event](ring.New(1024))
//
//	// Sequence-validated ring (strict per-slot commit validation)
//	r := ring.Build[Event](ring.New(4096).Strict())
//
//	// Pointer flavor
//	r := ring.New(8192).BuildPtr()
type Builder struct {
	opts Options
}

// New creates a ring builder with the given capacity.
//
// Capacity is exact: a ring of capacity C retains the last C inserted
// values. Capacity 1 is a valid single-slot overwrite buffer.
//
// Panics if capacity < 1.
//
// Example:
//
//	// Create builder, then configure and build
//	b := ring.New(1024)
//	r := ring.BuildStrict[int](b.Strict())
//
//	// Or chain directly
//	r := ring.Build[int](ring.New(1024))
func New(capacity int) *Builder {
	if capacity < 1 {
		panic("ring: capacity must be >= 1")
	}
	return &Builder{opts: Options{capacity: capacity}}
}

// Strict selects the sequence-validated algorithm, which validates every
// slot access against the commit that claimed it.
//
// Trade-off: one extra word per slot, one extra atomic per operation;
// closes the counter-based algorithm's stale-slot-index window under
// heavy mixed insert/remove contention.
//
// Ptr and Indirect flavors are always sequence-validated and ignore
// Strict().
func (b *Builder) Strict() *Builder {
	b.opts.strict = true
	return b
}

// Build creates a Buffer[T] with automatic algorithm selection.
//
// Algorithm selection:
//
//	default  → Ring (counter-based, no per-slot metadata)
//	Strict() → RingSeq (per-slot sequence validation)
//
// For concrete return types, use:
//   - NewRing[T] / NewRingSeq[T] directly
//   - BuildStrict[T](b) → *RingSeq[T]
func Build[T any](b *Builder) Buffer[T] {
	if b.opts.strict {
		return NewRingSeq[T](b.opts.capacity)
	}
	return NewRing[T](b.opts.capacity)
}

// BuildStrict creates a sequence-validated ring with a concrete return
// type. Panics if the builder is not configured with Strict().
func BuildStrict[T any](b *Builder) *RingSeq[T] {
	if !b.opts.strict {
		panic("ring: BuildStrict requires Strict()")
	}
	return NewRingSeq[T](b.opts.capacity)
}

// BuildPtr creates a BufferPtr for unsafe.Pointer values.
// The Ptr flavor is always sequence-validated; Strict() is a no-op.
func (b *Builder) BuildPtr() BufferPtr {
	return NewRingPtr(b.opts.capacity)
}

// BuildIndirect creates a BufferIndirect for uintptr values.
// The Indirect flavor is always sequence-validated; Strict() is a no-op.
func (b *Builder) BuildIndirect() BufferIndirect {
	return NewRingIndirect(b.opts.capacity)
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
