// Package ring implements RNS-accelerated modular arithmetic for negacyclic
// polynomials over Z_Q[X]/(X^N+1), where Q is a product of word-sized
// NTT-friendly primes. It provides Barrett and Montgomery reduction,
// forward/inverse number-theoretic transforms, and RNS base conversion.
package ring

import (
	"math/big"
	"math/bits"
)

// Modulus wraps a single prime p < 2^63 together with its precomputed
// Barrett and Montgomery reduction factors. A Modulus is immutable after
// construction. The invariant p is prime, odd, and (p-1) divisible by 2N
// for some NTT degree N is established by the caller (GeneratePrimes, or
// NewModulus for externally supplied primes used only in Coeff format).
type Modulus struct {
	p uint64

	// Barrett factors: mu = floor(2^128 / p), split into high/low words.
	bRedParams [2]uint64

	// Montgomery factor: mRedParams = p^-1 mod 2^64.
	mRedParams uint64
}

// NewModulus builds the reduction precomputation for a prime p.
// It does not itself verify primality; use IsPrime for that.
func NewModulus(p uint64) Modulus {
	m := Modulus{p: p}
	m.bRedParams = barrettParams(p)
	if p&(p-1) != 0 {
		m.mRedParams = mRedParams(p)
	}
	return m
}

// Uint64 returns the prime value.
func (m Modulus) Uint64() uint64 { return m.p }

// BRedAdd reduces x, 0 <= x < 2p, into [0, p).
func (m Modulus) BRedAdd(x uint64) uint64 {
	return bRedAdd(x, m.p, m.bRedParams)
}

// Reduce reduces an arbitrary uint64 x into [0, p) using Barrett reduction.
func (m Modulus) Reduce(x uint64) uint64 {
	return bRedAdd(x, m.p, m.bRedParams)
}

// ReduceDouble reduces a double-word dividend (hi, lo), representing
// hi*2^64+lo, into [0, p). Variable-time; used only on setup paths
// (RNS base conversion, CRT compose) where the dividend is not secret.
func (m Modulus) ReduceDouble(hi, lo uint64) uint64 {
	x := new(big.Int).Lsh(new(big.Int).SetUint64(hi), 64)
	x.Or(x, new(big.Int).SetUint64(lo))
	x.Mod(x, new(big.Int).SetUint64(m.p))
	return x.Uint64()
}

// MulMod returns x*y mod p using Barrett reduction.
func (m Modulus) MulMod(x, y uint64) uint64 {
	return bRed(x, y, m.p, m.bRedParams)
}

// ReduceProduct is an alias for MulMod, matching spec §4.1 naming.
func (m Modulus) ReduceProduct(x, y uint64) uint64 {
	return m.MulMod(x, y)
}

// Add returns x+y mod p for x, y already in [0, p).
func (m Modulus) Add(x, y uint64) uint64 {
	z := x + y
	if z >= m.p {
		z -= m.p
	}
	return z
}

// Sub returns x-y mod p for x, y already in [0, p).
func (m Modulus) Sub(x, y uint64) uint64 {
	if x >= y {
		return x - y
	}
	return m.p - y + x
}

// Neg returns -x mod p for x already in [0, p).
func (m Modulus) Neg(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	return m.p - x
}

// PowMod returns x^e mod p, variable-time in e (e is always a public
// exponent: a Galois element or a fixed small constant).
func (m Modulus) PowMod(x, e uint64) uint64 {
	return modExpGeneric(x, e, m.p)
}

// InverseMod returns x^-1 mod p, or ErrNotInvertible if gcd(x, p) != 1.
func (m Modulus) InverseMod(x uint64) (uint64, error) {
	if x == 0 {
		return 0, ErrNotInvertible
	}
	g, inv, _ := extendedGCD(int64(x%m.p), int64(m.p))
	if g != 1 {
		return 0, ErrNotInvertible
	}
	inv %= int64(m.p)
	if inv < 0 {
		inv += int64(m.p)
	}
	return uint64(inv), nil
}

// DivideFloor returns floor(x/p) for a double-width dividend given as a
// big.Int; this is a setup-only, variable-time helper used by RNS base
// conversion (spec §4.1's divide_floor).
func (m Modulus) DivideFloor(x *big.Int) *big.Int {
	q := new(big.Int)
	q.Div(x, new(big.Int).SetUint64(m.p))
	return q
}

// MultiplyConstantModulus precomputes a Shoup multiplier for fast
// repeated multiplication by a fixed constant c modulo p (spec §4.1).
type MultiplyConstantModulus struct {
	p     uint64
	c     uint64
	shoup uint64 // floor(c * 2^64 / p)
}

// NewMultiplyConstantModulus precomputes the Shoup factor for constant c.
func NewMultiplyConstantModulus(m Modulus, c uint64) MultiplyConstantModulus {
	num := new(big.Int).Lsh(new(big.Int).SetUint64(c), 64)
	num.Div(num, new(big.Int).SetUint64(m.p))
	return MultiplyConstantModulus{p: m.p, c: c, shoup: num.Uint64()}
}

// MulMod returns x*c mod p using the precomputed Shoup factor.
func (s MultiplyConstantModulus) MulMod(x uint64) uint64 {
	hi, _ := bits.Mul64(x, s.shoup)
	r := x*s.c - hi*s.p
	if r >= s.p {
		r -= s.p
	}
	return r
}

// ---- generic (non-word-size-specialized) helpers ----

func barrettParams(p uint64) [2]uint64 {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(p))
	mhi := new(big.Int).Rsh(bigR, 64).Uint64()
	mlo := bigR.Uint64()
	return [2]uint64{mhi, mlo}
}

func bRedAdd(x, p uint64, u [2]uint64) uint64 {
	s0, _ := bits.Mul64(x, u[0])
	r := x - s0*p
	if r >= p {
		r -= p
	}
	return r
}

func bRed(x, y, p uint64, u [2]uint64) uint64 {
	ahi, alo := bits.Mul64(x, y)

	lhi, _ := bits.Mul64(alo, u[1])

	mhi, mlo := bits.Mul64(alo, u[0])
	s0, carry := bits.Add64(mlo, lhi, 0)
	s1 := mhi + carry

	mhi, mlo = bits.Mul64(ahi, u[1])
	_, carry = bits.Add64(mlo, s0, 0)
	lhi = mhi + carry

	s0 = ahi*u[0] + s1 + lhi

	r := alo - s0*p
	if r >= p {
		r -= p
	}
	return r
}

func mRedParams(p uint64) uint64 {
	var x uint64 = p
	var inv uint64 = 1
	for i := 0; i < 63; i++ {
		inv *= x
		x *= x
	}
	return inv
}

// mRed computes x*y*(2^-64) mod p, the Montgomery reduction used by the NTT
// butterflies (spec §4.3); pInv must equal mRedParams(p).
func mRed(x, y, p, pInv uint64) uint64 {
	ahi, alo := bits.Mul64(x, y)
	r := alo * pInv
	h, _ := bits.Mul64(r, p)
	out := ahi - h + p
	if out >= p {
		out -= p
	}
	return out
}

func modExpGeneric(x, e, p uint64) uint64 {
	return new(big.Int).Exp(new(big.Int).SetUint64(x), new(big.Int).SetUint64(e), new(big.Int).SetUint64(p)).Uint64()
}

func extendedGCD(a, b int64) (g, x, y int64) {
	if a == 0 {
		return b, 0, 1
	}
	g, x1, y1 := extendedGCD(b%a, a)
	return g, y1 - (b/a)*x1, x1
}

// ---- constant-time helpers (spec §4.1) ----

// ctSelect returns a if mask == ^uint64(0), b if mask == 0.
func ctSelect(mask, a, b uint64) uint64 {
	return (a & mask) | (b &^ mask)
}

// CtEq returns all-ones if x == y, else 0.
func CtEq(x, y uint64) uint64 {
	d := x ^ y
	// d == 0 iff x == y.
	return ((d | -d) >> 63) - 1
}

// CtLt returns all-ones if x < y, else 0, without data-dependent branches.
func CtLt(x, y uint64) uint64 {
	// Via the borrow of x-y.
	diff := x - y
	msb := ((^x & y) | (^(x ^ y) & diff)) >> 63
	return -(msb & 1)
}

// CtLe returns all-ones if x <= y, else 0.
func CtLe(x, y uint64) uint64 {
	return CtLt(x, y) | CtEq(x, y)
}

// CtMsb returns all-ones if the most significant bit of x is set, else 0.
func CtMsb(x uint64) uint64 {
	return -(x >> 63)
}

// Select exposes the constant-time select primitive for callers outside the
// package.
func Select(mask, a, b uint64) uint64 { return ctSelect(mask, a, b) }
