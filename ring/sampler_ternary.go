package ring

// TernarySampler draws polynomials with coefficients in {-1, 0, 1},
// each with probability 1/3 (spec §4.5's generate_secret_key), grounded
// on the teacher's ring/ring_sampler_ternary.go rejection-sampling
// structure (refill a byte pool from the PRNG, reject out-of-range
// draws), specialized to the spec's fixed uniform-ternary distribution.
type TernarySampler struct {
	prng PRNG
	ctx  *PolyContext
}

// NewTernarySampler builds a sampler drawing ternary coefficients from prng.
func NewTernarySampler(prng PRNG, ctx *PolyContext) *TernarySampler {
	return &TernarySampler{prng: prng, ctx: ctx}
}

// Read fills pol with a fresh ternary sample, the same small coefficient
// embedded (as 0, 1, or q_i-1) across every RNS channel in pol's context.
func (s *TernarySampler) Read(pol *PolyRq) {
	n := s.ctx.N()
	values := make([]int8, n)

	// 256 mod 3 == 1, so rejecting the single value 255 makes `byte % 3`
	// an exact, unbiased draw from {0,1,2} with probability 1/3 each.
	buf := make([]byte, n)
	filled := 0
	for filled < n {
		if _, err := s.prng.Read(buf[filled:]); err != nil {
			panic(err)
		}
		for i := filled; i < n; i++ {
			if buf[i] == 255 {
				continue
			}
			switch buf[i] % 3 {
			case 0:
				values[filled] = -1
			case 1:
				values[filled] = 0
			case 2:
				values[filled] = 1
			}
			filled++
		}
	}

	for lvl, m := range s.ctx.moduli {
		q := m.Uint64()
		dst := pol.coeffs[lvl]
		for i, v := range values {
			switch v {
			case -1:
				dst[i] = q - 1
			case 0:
				dst[i] = 0
			case 1:
				dst[i] = 1
			}
		}
	}
	pol.format = Coeff
}

// ReadNew allocates and fills a new ternary polynomial.
func (s *TernarySampler) ReadNew() *PolyRq {
	p := NewPolyRq(s.ctx, Coeff)
	s.Read(p)
	return p
}
