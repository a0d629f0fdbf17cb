package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// PolyContext is an ordered, non-empty sequence of Modulus values shared by
// every PolyRq built over it, together with the ring degree N and
// precomputed NTT tables. Two contexts are equal iff their moduli
// sequences are identical (spec §3); in this implementation contexts are
// compared by pointer identity, which the rest of the package relies on
// (PolyRq operations require the exact same *PolyContext).
type PolyContext struct {
	n      int
	nth    uint64 // 2N, the NTT root order
	moduli []Modulus

	logQ int

	nttPsi    [][]uint64 // per-modulus, bit-reversed powers of psi (Montgomery form)
	nttPsiInv [][]uint64 // per-modulus, bit-reversed powers of psi^-1 (Montgomery form)
	nttNInv   []uint64   // per-modulus, N^-1 in Montgomery form
}

// NewPolyContext builds a PolyContext for ring degree n (a power of two)
// over the given moduli, each of which must be prime and ≡ 1 (mod 2n) to
// support NTT. Returns an error rather than panicking so that
// EncryptionParameters construction can surface InvalidEncryptionParameters.
func NewPolyContext(n int, primes []uint64) (*PolyContext, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("ring: polynomial degree %d is not a power of two", n)
	}
	if len(primes) == 0 {
		return nil, fmt.Errorf("ring: at least one modulus is required")
	}

	c := &PolyContext{n: n, nth: uint64(2 * n)}
	c.moduli = make([]Modulus, len(primes))

	logQ := 0
	for i, p := range primes {
		if !IsPrime(p) {
			return nil, fmt.Errorf("ring: modulus %d is not prime", p)
		}
		if (p-1)%c.nth != 0 {
			return nil, fmt.Errorf("ring: modulus %d is not congruent to 1 mod 2N=%d", p, c.nth)
		}
		c.moduli[i] = NewModulus(p)
		logQ += bits.Len64(p)
	}
	c.logQ = logQ

	if err := c.genNTTTables(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewNonNTTPolyContext builds a single-modulus PolyContext for a modulus
// that is not NTT-friendly (not ≡ 1 mod 2N), usable only for Coeff-format
// storage and plain modular arithmetic — ForwardNTT/InverseNTT on a
// PolyRq built over it will panic. This covers the plaintext-modulus
// output of decryption when t was not chosen to support SIMD encoding.
func NewNonNTTPolyContext(n int, modulus uint64) *PolyContext {
	if n <= 0 || n&(n-1) != 0 {
		panic(fmt.Sprintf("ring: polynomial degree %d is not a power of two", n))
	}
	c := &PolyContext{n: n, nth: uint64(2 * n)}
	c.moduli = []Modulus{NewModulus(modulus)}
	c.logQ = bits.Len64(modulus)
	return c
}

// N returns the ring degree.
func (c *PolyContext) N() int { return c.n }

// NthRoot returns 2N, the order of the NTT root of unity.
func (c *PolyContext) NthRoot() uint64 { return c.nth }

// Levels returns the number of RNS channels (|moduli|).
func (c *PolyContext) Levels() int { return len(c.moduli) }

// Moduli returns the ordered modulus sequence.
func (c *PolyContext) Moduli() []Modulus { return c.moduli }

// LogQ returns the total bit-width sum(logQ_i).
func (c *PolyContext) LogQ() int { return c.logQ }

// ModulusBigInt returns Q = prod(moduli) as an exact big.Int (setup-only,
// variable-time).
func (c *PolyContext) ModulusBigInt() *big.Int {
	q := big.NewInt(1)
	for _, m := range c.moduli {
		q.Mul(q, new(big.Int).SetUint64(m.Uint64()))
	}
	return q
}

// Equal reports whether two contexts carry identical moduli sequences
// (spec §3's notion of context equality, distinct from the pointer
// identity PolyRq operations enforce internally).
func (c *PolyContext) Equal(o *PolyContext) bool {
	if c.n != o.n || len(c.moduli) != len(o.moduli) {
		return false
	}
	for i := range c.moduli {
		if c.moduli[i].Uint64() != o.moduli[i].Uint64() {
			return false
		}
	}
	return true
}

// WithoutLastModulus returns a new PolyContext over the same degree and
// all but the last modulus, as used by divide-and-round-by-last
// (spec §4.4) and modulus switch-down (spec §4.5).
func (c *PolyContext) WithoutLastModulus() (*PolyContext, error) {
	if len(c.moduli) < 2 {
		return nil, fmt.Errorf("ring: cannot drop the last modulus of a single-modulus context")
	}
	primes := make([]uint64, len(c.moduli)-1)
	for i := range primes {
		primes[i] = c.moduli[i].Uint64()
	}
	return NewPolyContext(c.n, primes)
}

// NewPoly allocates a zero PolyRq over this context in the given format.
func (c *PolyContext) NewPoly(format Format) *PolyRq {
	return NewPolyRq(c, format)
}

// --- NTT table generation (spec §4.3) ---

func (c *PolyContext) genNTTTables() error {
	n := c.n
	logN := bits.Len64(uint64(n)) - 1

	c.nttPsi = make([][]uint64, len(c.moduli))
	c.nttPsiInv = make([][]uint64, len(c.moduli))
	c.nttNInv = make([]uint64, len(c.moduli))

	for mi, m := range c.moduli {
		p := m.Uint64()

		psi, err := findPrimitiveRoot(p, c.nth)
		if err != nil {
			return fmt.Errorf("ring: modulus %d: %w", p, err)
		}
		psiInv, err := m.InverseMod(psi)
		if err != nil {
			return err
		}

		fwd := make([]uint64, n)
		inv := make([]uint64, n)
		fwd[0] = 1
		inv[0] = 1
		for i := 1; i < n; i++ {
			fwd[i] = m.MulMod(fwd[i-1], psi)
			inv[i] = m.MulMod(inv[i-1], psiInv)
		}

		// Store in bit-reversed order and in Montgomery form so the
		// butterfly's MRed can consume them directly.
		brFwd := make([]uint64, n)
		brInv := make([]uint64, n)
		for i := 0; i < n; i++ {
			ri := bitReverse(uint64(i), logN)
			brFwd[i] = montgomeryForm(fwd[ri], p, m.mRedParams)
			brInv[i] = montgomeryForm(inv[ri], p, m.mRedParams)
		}
		c.nttPsi[mi] = brFwd
		c.nttPsiInv[mi] = brInv

		nInv, err := m.InverseMod(uint64(n))
		if err != nil {
			return err
		}
		c.nttNInv[mi] = montgomeryForm(nInv, p, m.mRedParams)
	}
	return nil
}

// montgomeryForm computes a*2^64 mod p. It runs only at context
// construction (once per modulus, not on the hot path), so clarity via
// big.Int is preferred over a hand-rolled double-width reduction.
func montgomeryForm(a, p, pInv uint64) uint64 {
	_ = pInv
	x := new(big.Int).Lsh(new(big.Int).SetUint64(a), 64)
	x.Mod(x, new(big.Int).SetUint64(p))
	return x.Uint64()
}

func bitReverse(x uint64, logN int) uint64 {
	var r uint64
	for i := 0; i < logN; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// findPrimitiveRoot returns a primitive nth-root of unity modulo p,
// i.e. an element g with g^nth = 1 and g^(nth/2) = p-1 (= -1 mod p).
// Variable-time; run once per modulus at context construction.
func findPrimitiveRoot(p, nth uint64) (uint64, error) {
	m := NewModulus(p)
	order := p - 1
	if order%nth != 0 {
		return 0, fmt.Errorf("2N does not divide p-1")
	}
	exp := order / nth
	for g := uint64(2); g < p; g++ {
		cand := m.PowMod(g, exp)
		if cand == 0 || cand == 1 {
			continue
		}
		if m.PowMod(cand, nth/2) == p-1 {
			return cand, nil
		}
	}
	return 0, fmt.Errorf("no primitive %d-th root found", nth)
}
