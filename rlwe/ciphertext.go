package rlwe

import (
	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
	"github.com/apple/swift-homomorphic-encryption-sub002/sampling"
)

// Ciphertext is a sum type over two representations (spec §9's
// "seeded-vs-full ciphertext duality" design note): Full carries every
// polynomial explicitly; Seeded carries only the first polynomial plus
// the 32-byte PRG seed that regenerates the second (spec §4.10).
// CorrectionFactor tracks the scale adjustment mod-switch-down applies,
// defaulting to 1 on the standard BFV path (spec §4.5's "requires
// matching correction factor 1").
type Ciphertext struct {
	Polys            []*ring.PolyRq
	Seed             *[32]byte
	CorrectionFactor uint64

	ctx *ring.PolyContext
}

// NewCiphertext wraps a full ciphertext over the given polynomials
// (typically length 2, length 3 after a multiplication).
func NewCiphertext(ctx *ring.PolyContext, polys []*ring.PolyRq) *Ciphertext {
	return &Ciphertext{Polys: polys, CorrectionFactor: 1, ctx: ctx}
}

// NewSeededCiphertext wraps a seeded ciphertext: c0 explicit, c1
// reconstructed on demand from seed.
func NewSeededCiphertext(ctx *ring.PolyContext, c0 *ring.PolyRq, seed [32]byte) *Ciphertext {
	return &Ciphertext{Polys: []*ring.PolyRq{c0}, Seed: &seed, CorrectionFactor: 1, ctx: ctx}
}

// Degree returns len(Polys)-1: 1 for a fresh ciphertext, 2 after a
// ciphertext-ciphertext multiplication prior to relinearization.
func (ct *Ciphertext) Degree() int {
	return len(ct.Materialize()) - 1
}

// Materialize returns the explicit polynomial slice, regenerating the
// second polynomial from the seed on first access if the ciphertext is
// in seeded form. The canonical form (spec §9) so every evaluator
// operation can treat Ciphertext uniformly.
func (ct *Ciphertext) Materialize() []*ring.PolyRq {
	if ct.Seed == nil {
		return ct.Polys
	}
	prng, err := sampling.NewCTRPRNGFromSeed(ct.Seed[:], "rlwe-ciphertext-regen")
	if err != nil {
		panic(err)
	}
	uniform := ring.NewUniformSampler(prng, ct.ctx)
	c1 := uniform.ReadNew()
	ring.ForwardNTT(c1)
	if ct.Polys[0].Format() == ring.Coeff {
		ring.InverseNTT(c1)
	}
	full := []*ring.PolyRq{ct.Polys[0], c1}
	ct.Polys = full
	ct.Seed = nil
	return full
}

// IsTransparent reports whether the ciphertext's second polynomial is
// identically zero, meaning it decrypts to a predictable value without
// the secret key (spec §4.5's is_transparent).
func (ct *Ciphertext) IsTransparent() bool {
	polys := ct.Materialize()
	if len(polys) < 2 {
		return true
	}
	for _, p := range polys[1:] {
		if !p.IsZero(false) {
			return false
		}
	}
	return true
}

// CopyNew returns a deep copy sharing no backing storage with ct.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	polys := ct.Materialize()
	out := make([]*ring.PolyRq, len(polys))
	for i, p := range polys {
		out[i] = p.CopyNew()
	}
	return &Ciphertext{Polys: out, CorrectionFactor: ct.CorrectionFactor, ctx: ct.ctx}
}

// Context returns the ciphertext's ring context.
func (ct *Ciphertext) Context() *ring.PolyContext { return ct.ctx }
