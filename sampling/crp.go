package sampling

import (
	"io"

	"github.com/zeebo/blake3"
)

// CRPGenerator derives a deterministic, publicly reproducible byte stream
// from a 32-byte seed, usable as a ring.PRNG. No other package in this
// module constructs one: seeded ciphertexts regenerate their "a"
// component from a CTRPRNG, and key generation draws from the key
// generator's own PRNG. Built on BLAKE3's XOF
// mode rather than AES-CTR since the output need not be secret, only
// reproducible and domain-separated from other consumers of the same
// seed (distinct CRPGenerators are told apart by the round label passed
// to Reset, mirroring lattigo's distributed-sampler key schedule).
type CRPGenerator struct {
	seed   [32]byte
	digest *blake3.Digest
}

// NewCRPGenerator builds a generator from a 32-byte seed and an initial
// round label (e.g. an RNS channel index or protocol round number).
func NewCRPGenerator(seed [32]byte, label string) *CRPGenerator {
	g := &CRPGenerator{seed: seed}
	g.Reset(label)
	return g
}

// Reset rekeys the generator for a new label, producing an independent
// stream derived from the same seed.
func (g *CRPGenerator) Reset(label string) {
	h := blake3.New()
	h.Write(g.seed[:])
	h.Write([]byte(label))
	g.digest = h.Digest()
}

// Read fills p with generator output, satisfying ring.PRNG. Successive
// calls continue the same XOF stream.
func (g *CRPGenerator) Read(p []byte) (int, error) {
	return io.ReadFull(g.digest, p)
}
