package intro

import (
	"fmt"
	"math/bits"
)

// Distance returns the number of differing bits between two equal-length
// fingerprint windows. It panics when the lengths differ, which can only
// happen if the caller computed window bounds incorrectly.
func Distance(a, b []uint32) int {
	if len(a) != len(b) {
		panic(fmt.Sprintf("intro: distance between windows of length %d and %d", len(a), len(b)))
	}
	total := 0
	for i := range a {
		total += bits.OnesCount32(a[i] ^ b[i])
	}
	return total
}
