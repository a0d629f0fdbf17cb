package rlwe

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
	"github.com/apple/swift-homomorphic-encryption-sub002/sampling"
)

// Encryptor encrypts plaintexts under a fixed secret key (spec §4.5's
// symmetric encryption path: c0 = -(a*s+e) + Delta*pt, c1 = a, with a
// drawn from a fresh PRG seed that the ciphertext carries instead of a
// itself).
type Encryptor struct {
	params    *EncryptionParameters
	sk        *SecretKey
	prng      ring.PRNG
	deltaModQ []uint64
}

// NewEncryptor builds an encryptor for sk, scaling plaintexts by
// Delta = floor(Q/t).
func NewEncryptor(params *EncryptionParameters, sk *SecretKey, prng ring.PRNG) *Encryptor {
	qBig := params.RingQ().ModulusBigInt()
	t := new(big.Int).SetUint64(params.PlaintextModulus())
	delta := new(big.Int).Div(qBig, t)

	moduli := params.RingQ().Moduli()
	deltaModQ := make([]uint64, len(moduli))
	for i, m := range moduli {
		deltaModQ[i] = new(big.Int).Mod(delta, new(big.Int).SetUint64(m.Uint64())).Uint64()
	}

	return &Encryptor{params: params, sk: sk, prng: prng, deltaModQ: deltaModQ}
}

// EncryptNew encrypts pt, returning a seeded ciphertext: c0 explicit in
// Eval form, c1 = a reconstructible from the returned 32-byte seed.
func (enc *Encryptor) EncryptNew(pt *Plaintext) (*Ciphertext, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("rlwe: encrypt: %w", err)
	}
	seedPRNG, err := sampling.NewCTRPRNGFromSeed(seed[:], "rlwe-ciphertext-regen")
	if err != nil {
		return nil, err
	}

	qCtx := enc.params.RingQ()
	uniform := ring.NewUniformSampler(seedPRNG, qCtx)
	binomial := sampling.NewCenteredBinomialSampler(enc.prng, qCtx, enc.params.ErrorBase())

	a := uniform.ReadNew()
	e := binomial.ReadNew()
	ring.ForwardNTT(a)
	ring.ForwardNTT(e)

	c0 := a.CopyNew()
	if err := c0.MulAssign(enc.sk.Value); err != nil {
		return nil, err
	}
	if err := c0.AddAssign(e); err != nil {
		return nil, err
	}
	c0.NegAssign()

	scaled, err := enc.scalePlaintext(pt)
	if err != nil {
		return nil, err
	}
	ring.ForwardNTT(scaled)
	if err := c0.AddAssign(scaled); err != nil {
		return nil, err
	}

	return NewSeededCiphertext(qCtx, c0, seed), nil
}

// scalePlaintext lifts pt (residues mod t) into a Delta-scaled polynomial
// over the ciphertext modulus Q, in Coeff format.
func (enc *Encryptor) scalePlaintext(pt *Plaintext) (*ring.PolyRq, error) {
	qCtx := enc.params.RingQ()
	t := enc.params.PlaintextModulus()
	out := ring.NewPolyRq(qCtx, ring.Coeff)

	tRow := pt.Value.At(0)
	n := qCtx.N()
	centered := make([]int64, n)
	for i := 0; i < n; i++ {
		centered[i] = ring.RemainderToCentered(tRow[i], t)
	}

	for lvl, m := range qCtx.Moduli() {
		dst := out.At(lvl)
		dq := enc.deltaModQ[lvl]
		for i, v := range centered {
			if v >= 0 {
				dst[i] = m.MulMod(dq, uint64(v))
			} else {
				dst[i] = m.Neg(m.MulMod(dq, uint64(-v)))
			}
		}
	}
	return out, nil
}
