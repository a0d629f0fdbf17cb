package sampling

import "github.com/apple/swift-homomorphic-encryption-sub002/ring"

// CenteredBinomialSampler draws error polynomials from a centered
// binomial distribution of fixed order (spec §4.5's "error distribution",
// e <- sum of baseBits independent fair-coin differences), grounded on
// the teacher's ring/ring_sampler_ternary.go bit-extraction structure but
// specialized to the binomial rather than ternary law. A sample has
// variance base/2, so a base of 20 (variance 10) matches the conventional
// BFV/BGV default noise width.
type CenteredBinomialSampler struct {
	prng ring.PRNG
	ctx  *ring.PolyContext
	base int
}

// NewCenteredBinomialSampler builds a sampler drawing order-2*base
// centered binomial noise over ctx. base must be even; base=20
// reproduces the standard variance-10 BFV/BGV error width.
func NewCenteredBinomialSampler(prng ring.PRNG, ctx *ring.PolyContext, base int) *CenteredBinomialSampler {
	return &CenteredBinomialSampler{prng: prng, ctx: ctx, base: base}
}

// Read fills pol with a fresh centered-binomial sample, the same small
// coefficient embedded across every RNS channel in pol's context.
func (s *CenteredBinomialSampler) Read(pol *ring.PolyRq) {
	n := s.ctx.N()
	bytesPerCoeff := (2*s.base + 7) / 8
	buf := make([]byte, bytesPerCoeff)
	values := make([]int64, n)

	for i := 0; i < n; i++ {
		if _, err := s.prng.Read(buf); err != nil {
			panic(err)
		}
		var ones int
		bitIdx := 0
		for b := 0; b < s.base; b++ {
			if getBit(buf, bitIdx) == 1 {
				ones++
			}
			bitIdx++
		}
		var zeros int
		for b := 0; b < s.base; b++ {
			if getBit(buf, bitIdx) == 1 {
				zeros++
			}
			bitIdx++
		}
		values[i] = int64(ones) - int64(zeros)
	}

	for lvl, m := range s.ctx.Moduli() {
		q := m.Uint64()
		for i, v := range values {
			var r uint64
			if v < 0 {
				r = q - uint64(-v)%q
				if r == q {
					r = 0
				}
			} else {
				r = uint64(v) % q
			}
			pol.At(lvl)[i] = r
		}
	}
}

// ReadNew allocates and fills a new centered-binomial polynomial.
func (s *CenteredBinomialSampler) ReadNew() *ring.PolyRq {
	p := ring.NewPolyRq(s.ctx, ring.Coeff)
	s.Read(p)
	return p
}

func getBit(buf []byte, idx int) int {
	byteIdx := idx / 8
	if byteIdx >= len(buf) {
		return 0
	}
	return int((buf[byteIdx] >> uint(idx%8)) & 1)
}
