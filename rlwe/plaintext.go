package rlwe

import "github.com/apple/swift-homomorphic-encryption-sub002/ring"

// Plaintext wraps a single polynomial over the plaintext modulus t; the
// bfv package's Encoder produces these from integer vectors and the
// Encryptor lifts them into ciphertexts scaled by Delta.
type Plaintext struct {
	Value *ring.PolyRq
}

// IsZero reports whether the plaintext encodes the all-zero vector,
// used by transparency propagation (spec §4.5's is_transparent and §8's
// "ct · pt0 when pt0 encodes zero" rule).
func (pt *Plaintext) IsZero() bool {
	return pt.Value.IsZero(false)
}
