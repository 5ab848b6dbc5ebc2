// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains tests with concurrent inserter/remover goroutines.
// These trigger false positives with Go's race detector because slot data
// is protected by atomic sequences the detector cannot see. The tests are
// excluded from race builds; sequential coverage lives in basic_test.go.

package ring_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/ring"
)

// =============================================================================
// Concurrent Inserters, Quiescent Drain
// =============================================================================

// TestRingConcurrentInsertDrain runs concurrent inserters against the
// counter-based ring, then drains after quiescence. The drain must yield
// exactly capacity values, each inserter's values in its own insertion
// order, with nothing duplicated.
func TestRingConcurrentInsertDrain(t *testing.T) {
	const (
		capacity  = 1024
		producers = 8
		perProd   = 100_000
	)

	r := ring.NewRing[uint64](capacity)

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			base := uint64(p) * perProd
			for i := range uint64(perProd) {
				v := base + i
				r.Insert(&v)
			}
		}(p)
	}
	wg.Wait()

	if r.Len() != capacity {
		t.Fatalf("Len after quiescence: got %d, want %d", r.Len(), capacity)
	}

	drained := drainAll(t, r, capacity)

	if _, err := r.Remove(); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Remove after drain: got %v, want ErrWouldBlock", err)
	}
	checkPerProducerOrder(t, drained, perProd)
}

// TestRingSeqConcurrentInsertDrain is the quiescent-drain check for the
// strict variant.
func TestRingSeqConcurrentInsertDrain(t *testing.T) {
	const (
		capacity  = 1024
		producers = 8
		perProd   = 100_000
	)

	r := ring.NewRingSeq[uint64](capacity)

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			base := uint64(p) * perProd
			for i := range uint64(perProd) {
				v := base + i
				r.Insert(&v)
			}
		}(p)
	}
	wg.Wait()

	drained := drainAll(t, r, capacity)

	if _, err := r.Remove(); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Remove after drain: got %v, want ErrWouldBlock", err)
	}
	checkPerProducerOrder(t, drained, perProd)
}

// TestRingConcurrentFewerThanCapacity verifies that when total insertions
// stay below capacity, nothing is evicted and everything drains back out.
func TestRingConcurrentFewerThanCapacity(t *testing.T) {
	const (
		capacity  = 4096
		producers = 4
		perProd   = 512
	)

	r := ring.NewRing[uint64](capacity)

	var evictions atomix.Int64
	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			base := uint64(p) * perProd
			for i := range uint64(perProd) {
				v := base + i
				if _, ok := r.Insert(&v); ok {
					evictions.Add(1)
				}
			}
		}(p)
	}
	wg.Wait()

	if n := evictions.Load(); n != 0 {
		t.Fatalf("evictions below capacity: got %d, want 0", n)
	}
	if r.Len() != producers*perProd {
		t.Fatalf("Len: got %d, want %d", r.Len(), producers*perProd)
	}

	drained := drainAll(t, r, producers*perProd)
	checkPerProducerOrder(t, drained, perProd)
}

// =============================================================================
// Mixed Insert/Remove Stress (strict variants)
// =============================================================================

// TestRingSeqMixedStress races inserters against removers on the strict
// ring and accounts for every value: each inserted value must surface
// exactly once - as a removal, as an eviction, or in the final drain.
func TestRingSeqMixedStress(t *testing.T) {
	const (
		capacity  = 64
		producers = 4
		consumers = 4
		perProd   = 50_000
	)

	r := ring.NewRingSeq[uint64](capacity)

	var (
		seen     = make([]atomix.Int32, producers*perProd)
		done     atomix.Bool
		prodWg   sync.WaitGroup
		consWg   sync.WaitGroup
		mark     = func(v uint64) { seen[v].Add(1) }
		expected = int64(producers * perProd)
	)

	for p := range producers {
		prodWg.Add(1)
		go func(p int) {
			defer prodWg.Done()
			base := uint64(p) * perProd
			for i := range uint64(perProd) {
				v := base + i
				if evicted, ok := r.Insert(&v); ok {
					mark(evicted)
				}
			}
		}(p)
	}

	for range consumers {
		consWg.Add(1)
		go func() {
			defer consWg.Done()
			backoff := iox.Backoff{}
			for {
				v, err := r.Remove()
				if err != nil {
					if done.LoadAcquire() {
						return
					}
					backoff.Wait()
					continue
				}
				backoff.Reset()
				mark(v)
			}
		}()
	}

	prodWg.Wait()
	done.StoreRelease(true)
	consWg.Wait()

	// Drain the remainder sequentially.
	for {
		v, err := r.Remove()
		if err != nil {
			break
		}
		mark(v)
	}

	var total int64
	for i := range seen {
		switch n := seen[i].Load(); n {
		case 0:
			t.Fatalf("value %d lost", i)
		case 1:
			total++
		default:
			t.Fatalf("value %d surfaced %d times", i, n)
		}
	}
	if total != expected {
		t.Fatalf("accounted values: got %d, want %d", total, expected)
	}
}

// TestRingIndirectMixedStress is the accounting stress for the uintptr
// flavor.
func TestRingIndirectMixedStress(t *testing.T) {
	const (
		capacity  = 32
		producers = 4
		consumers = 2
		perProd   = 50_000
	)

	r := ring.NewRingIndirect(capacity)

	var (
		seen   = make([]atomix.Int32, producers*perProd+1)
		done   atomix.Bool
		prodWg sync.WaitGroup
		consWg sync.WaitGroup
	)

	for p := range producers {
		prodWg.Add(1)
		go func(p int) {
			defer prodWg.Done()
			base := uintptr(p)*perProd + 1 // 0 is never inserted
			for i := range uintptr(perProd) {
				if evicted, ok := r.Insert(base + i); ok {
					seen[evicted].Add(1)
				}
			}
		}(p)
	}

	for range consumers {
		consWg.Add(1)
		go func() {
			defer consWg.Done()
			backoff := iox.Backoff{}
			for {
				v, err := r.Remove()
				if err != nil {
					if done.LoadAcquire() {
						return
					}
					backoff.Wait()
					continue
				}
				backoff.Reset()
				seen[v].Add(1)
			}
		}()
	}

	prodWg.Wait()
	done.StoreRelease(true)
	consWg.Wait()

	for {
		v, err := r.Remove()
		if err != nil {
			break
		}
		seen[v].Add(1)
	}

	if n := seen[0].Load(); n != 0 {
		t.Fatalf("phantom zero value surfaced %d times", n)
	}
	for i := 1; i < len(seen); i++ {
		if n := seen[i].Load(); n != 1 {
			t.Fatalf("value %d surfaced %d times, want 1", i, n)
		}
	}
}

// =============================================================================
// Helpers
// =============================================================================

// drainAll removes exactly want values and fails on an early empty signal.
func drainAll(t *testing.T, r interface{ Remove() (uint64, error) }, want int) []uint64 {
	t.Helper()
	out := make([]uint64, 0, want)
	for range want {
		v, err := r.Remove()
		if err != nil {
			t.Fatalf("Remove after %d of %d: %v", len(out), want, err)
		}
		out = append(out, v)
	}
	return out
}

// checkPerProducerOrder verifies that the drained values of each producer
// form a strictly increasing subsequence and that no value repeats. Values
// are laid out as producer*perProd + i, so the producer is value/perProd.
func checkPerProducerOrder(t *testing.T, drained []uint64, perProd uint64) {
	t.Helper()
	last := map[uint64]uint64{}
	for _, v := range drained {
		p := v / perProd
		if prev, ok := last[p]; ok && v <= prev {
			t.Fatalf("producer %d out of order: %d after %d", p, v, prev)
		}
		last[p] = v
	}
}
