// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"fmt"

	"code.hybscloud.com/ring"
)

// Example demonstrates the basic evicting contract.
func Example() {
	r := ring.NewRing[int](4)

	// Insert nine values through a four-slot ring
	for i := range 9 {
		v := i
		r.Insert(&v)
	}

	// The ring retains the last four
	for {
		v, err := r.Remove()
		if err != nil {
			break
		}
		fmt.Println(v)
	}
	// Output:
	// 5
	// 6
	// 7
	// 8
}

// Example_eviction demonstrates reclaiming displaced values.
func Example_eviction() {
	r := ring.NewRing[string](2)

	for _, s := range []string{"alpha", "beta", "gamma"} {
		if evicted, ok := r.Insert(&s); ok {
			fmt.Println("displaced:", evicted)
		}
	}

	v, _ := r.Remove()
	fmt.Println("oldest:", v)
	// Output:
	// displaced: alpha
	// oldest: beta
}

// Example_singleSlot demonstrates a capacity-1 overwrite buffer that
// always holds the most recent value.
func Example_singleSlot() {
	latest := ring.NewRing[int](1)

	for i := range 5 {
		v := i * 10
		latest.Insert(&v)
	}

	v, _ := latest.Remove()
	fmt.Println("latest:", v)
	// Output:
	// latest: 40
}

// Example_builder demonstrates algorithm selection through the builder.
func Example_builder() {
	relaxed := ring.Build[int](ring.New(16))
	strict := ring.Build[int](ring.New(16).Strict())

	fmt.Printf("%T\n", relaxed)
	fmt.Printf("%T\n", strict)
	// Output:
	// *ring.Ring[int]
	// *ring.RingSeq[int]
}
