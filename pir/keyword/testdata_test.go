package keyword

import (
	"math/rand"

	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

// testParams builds a small SIMD-capable parameter set shared by this
// package's tests: N=16, t=769 (prime, t ≡ 1 mod 32 so RingT is
// available, large enough to hold a raw byte 0-255 as a centered
// plaintext coefficient), q = {1153, 1217} (both prime and ≡ 1 mod 32).
func testParams() *rlwe.EncryptionParameters {
	params, err := rlwe.NewEncryptionParameters(16, 769, []uint64{1153, 1217}, rlwe.StdDev32, rlwe.SecurityUnchecked)
	if err != nil {
		panic(err)
	}
	return params
}

func testPRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
