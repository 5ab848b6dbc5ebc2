// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import "unsafe"

// Buffer is the combined inserter-remover interface for an evicting ring.
//
// Buffer provides non-blocking Insert and Remove operations. Insert never
// fails: when the buffer is full it displaces the oldest stored value and
// returns it. Remove returns ErrWouldBlock when the buffer is empty.
//
// The interface intentionally excludes a length accessor because accurate
// counts in lock-free algorithms require expensive cross-core
// synchronization. Ring exposes an advisory Len on the concrete type.
//
// Example:
//
//	r := ring.NewRing[int](1024)
//
//	// Insert
//	val := 42
//	if evicted, ok := r.Insert(&val); ok {
//	    // Buffer was full; evicted holds the displaced value
//	}
//
//	// Remove
//	elem, err := r.Remove()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Buffer[T any] interface {
	Inserter[T]
	Remover[T]
	Cap() int
}

// Inserter is the interface for inserting elements.
//
// The element is passed by pointer to avoid copying large structs. The
// buffer stores a copy of the pointed-to value, so the original can be
// modified after Insert returns.
type Inserter[T any] interface {
	// Insert adds an element to the buffer (non-blocking).
	// The element is copied into the buffer's internal storage.
	// If the buffer was full, the oldest stored value is displaced and
	// returned with ok=true; ownership of it transfers to the caller.
	// Otherwise returns (zero-value, false).
	//
	// Any number of goroutines may insert concurrently.
	Insert(elem *T) (evicted T, ok bool)
}

// Remover is the interface for removing elements.
//
// The element is returned by value (copied from the buffer's internal
// storage). The vacated slot is cleared to allow garbage collection of
// referenced objects.
type Remover[T any] interface {
	// Remove takes the oldest element out of the buffer (non-blocking).
	// Returns the removed element on success.
	// Returns (zero-value, ErrWouldBlock) if the buffer is empty; the
	// observation is instantaneous, not a promise the buffer stays empty.
	//
	// Any number of goroutines may remove concurrently.
	Remove() (T, error)
}

// BufferPtr is the combined interface for unsafe.Pointer rings.
//
// BufferPtr passes pointers directly without copying. This enables
// zero-copy transfer of objects between goroutines with eviction returning
// displaced objects to the inserter for recycling.
//
// Ownership semantics: the inserter transfers ownership of elem to the
// buffer; the buffer transfers ownership of a value back to exactly one
// caller, either through Remove or through the evicted return of Insert.
//
// Example (pool recycling):
//
//	r := ring.NewRingPtr(1024)
//
//	msg := &Message{Data: payload}
//	if old, ok := r.Insert(unsafe.Pointer(msg)); ok {
//	    release((*Message)(old)) // displaced oldest message
//	}
//
//	ptr, err := r.Remove()
//	if err == nil {
//	    consume((*Message)(ptr))
//	}
type BufferPtr interface {
	InserterPtr
	RemoverPtr
	Cap() int
}

// InserterPtr inserts unsafe.Pointer values (non-blocking).
type InserterPtr interface {
	// Insert adds a pointer to the buffer. If the buffer was full, the
	// displaced oldest pointer is returned with ok=true.
	Insert(elem unsafe.Pointer) (evicted unsafe.Pointer, ok bool)
}

// RemoverPtr removes unsafe.Pointer values (non-blocking).
type RemoverPtr interface {
	// Remove takes the oldest pointer out of the buffer.
	// Returns (nil, ErrWouldBlock) immediately if the buffer is empty.
	Remove() (unsafe.Pointer, error)
}

// BufferIndirect is the combined interface for uintptr rings.
//
// BufferIndirect passes indices or handles instead of full objects. This
// is useful for buffer pools, object pools, or any index-based structure
// where the newest entries matter and stale ones may be displaced.
//
// Example (recent-handle window):
//
//	recent := ring.NewRingIndirect(256)
//
//	// Record a handle; a displaced handle is closed
//	if old, ok := recent.Insert(h); ok {
//	    table.Close(old)
//	}
type BufferIndirect interface {
	InserterIndirect
	RemoverIndirect
	Cap() int
}

// InserterIndirect inserts uintptr values (non-blocking).
type InserterIndirect interface {
	// Insert adds a value to the buffer. If the buffer was full, the
	// displaced oldest value is returned with ok=true.
	Insert(elem uintptr) (evicted uintptr, ok bool)
}

// RemoverIndirect removes uintptr values (non-blocking).
type RemoverIndirect interface {
	// Remove takes the oldest value out of the buffer.
	// Returns (0, ErrWouldBlock) immediately if the buffer is empty.
	Remove() (uintptr, error)
}
