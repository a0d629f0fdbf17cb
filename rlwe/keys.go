package rlwe

import (
	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
	"github.com/apple/swift-homomorphic-encryption-sub002/zeroize"
)

// SecretKey holds the ternary secret polynomial in Eval form (spec §4.5:
// "stored in Eval form"), immutable after construction; callers must
// invoke Zeroize before releasing the last reference.
type SecretKey struct {
	Value *ring.PolyRq
}

// Zeroize overwrites the secret polynomial's buffer with zeros. Safe to
// call more than once.
func (sk *SecretKey) Zeroize() {
	if sk == nil || sk.Value == nil {
		return
	}
	zeroizePoly(sk.Value)
}

// PublicKey is a single key-switch key from the zero secret to sk,
// equivalently an encryption of zero under sk; used only when a protocol
// needs an asymmetric encrypt path (not exercised by the symmetric
// encryption flow in §4.5, but retained for API completeness since the
// teacher's PublicKeyGenerator exposes one).
type PublicKey struct {
	C0, C1 *ring.PolyRq
}

// KeySwitchKey implements the single-base RNS decomposition permitted by
// spec §4.6 in place of the special-modulus hybrid scheme: one
// key-switch ciphertext per RNS channel i, encrypting source·(Q/q_i)
// under the target secret. Value[i] = (c0_i, c1_i).
type KeySwitchKey struct {
	Value [][2]*ring.PolyRq
}

// Zeroize overwrites every channel's ciphertext polynomials.
func (k *KeySwitchKey) Zeroize() {
	if k == nil {
		return
	}
	for _, pair := range k.Value {
		zeroizePoly(pair[0])
		zeroizePoly(pair[1])
	}
}

// GaloisKey is a KeySwitchKey from s(X^g) to s(X), indexed by its Galois
// element.
type GaloisKey struct {
	GaloisElement uint64
	Key           *KeySwitchKey
}

// RelinearizationKey is a KeySwitchKey from s^2 to s.
type RelinearizationKey struct {
	Key *KeySwitchKey
}

// EvaluationKey bundles the Galois keys and relinearization key a
// ciphertext operator needs (spec §4.5's generate_evaluation_key).
// Immutable after construction and safely shared by reference across
// operations, per the concurrency model's "keys built up-front, passed
// by immutable reference" policy.
type EvaluationKey struct {
	RelinKey   *RelinearizationKey
	GaloisKeys map[uint64]*GaloisKey
}

// HasGaloisElement reports whether g has a generated key.
func (ek *EvaluationKey) HasGaloisElement(g uint64) bool {
	if ek == nil {
		return false
	}
	_, ok := ek.GaloisKeys[g]
	return ok
}

// GaloisKeyFor returns the key for g, or an error satisfying
// errors.Is(err, ErrMissingGaloisElement).
func (ek *EvaluationKey) GaloisKeyFor(g uint64) (*GaloisKey, error) {
	if !ek.HasGaloisElement(g) {
		return nil, &MissingGaloisElementError{GaloisElement: g}
	}
	return ek.GaloisKeys[g], nil
}

func zeroizePoly(p *ring.PolyRq) {
	if p == nil {
		return
	}
	for lvl := 0; lvl < p.Levels(); lvl++ {
		zeroize.Uint64s(p.At(lvl))
	}
}
