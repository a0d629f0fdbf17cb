package rlwe

import (
	"math/big"

	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
	"github.com/apple/swift-homomorphic-encryption-sub002/sampling"
)

// KeyGenerator draws secret keys, public keys, and evaluation keys over
// a fixed set of parameters, grounded on the teacher's
// core/rlwe/keygenerator.go shape but specialized to the single-base RNS
// key-switch decomposition this implementation chose for C6.
type KeyGenerator struct {
	params *EncryptionParameters
	prng   ring.PRNG
}

// NewKeyGenerator builds a generator drawing randomness from prng.
func NewKeyGenerator(params *EncryptionParameters, prng ring.PRNG) *KeyGenerator {
	return &KeyGenerator{params: params, prng: prng}
}

// GenerateSecretKey samples a fresh ternary secret key (spec §4.5).
func (kg *KeyGenerator) GenerateSecretKey() *SecretKey {
	sampler := ring.NewTernarySampler(kg.prng, kg.params.RingQ())
	sk := sampler.ReadNew()
	ring.ForwardNTT(sk)
	return &SecretKey{Value: sk}
}

// GeneratePublicKey derives an encryption of zero under sk: (c0, c1) with
// c1 uniform and c0 = -(c1*s + e).
func (kg *KeyGenerator) GeneratePublicKey(sk *SecretKey) *PublicKey {
	ctx := kg.params.RingQ()
	uniform := ring.NewUniformSampler(kg.prng, ctx)
	binomial := sampling.NewCenteredBinomialSampler(kg.prng, ctx, kg.params.ErrorBase())

	a := uniform.ReadNew()
	e := binomial.ReadNew()
	ring.ForwardNTT(a)
	ring.ForwardNTT(e)

	c0 := a.CopyNew()
	_ = c0.MulAssign(sk.Value)
	_ = c0.AddAssign(e)
	c0.NegAssign()

	return &PublicKey{C0: c0, C1: a}
}

// GenerateRelinearizationKey builds the s^2 -> s key-switch key used by
// ciphertext-ciphertext multiplication's relinearization step.
func (kg *KeyGenerator) GenerateRelinearizationKey(sk *SecretKey) *RelinearizationKey {
	s2 := sk.Value.CopyNew()
	_ = s2.MulAssign(sk.Value)
	return &RelinearizationKey{Key: kg.generateKeySwitchKey(s2, sk.Value)}
}

// GenerateGaloisKey builds the s(X^g) -> s(X) key-switch key for the
// automorphism σ_g.
func (kg *KeyGenerator) GenerateGaloisKey(sk *SecretKey, g uint64) (*GaloisKey, error) {
	ctx := kg.params.RingQ()
	skCoeff := sk.Value.CopyNew()
	ring.InverseNTT(skCoeff)

	permuted := ctx.NewPoly(ring.Coeff)
	if err := ring.Automorphism(skCoeff, g, permuted); err != nil {
		return nil, err
	}
	ring.ForwardNTT(permuted)

	return &GaloisKey{
		GaloisElement: g,
		Key:           kg.generateKeySwitchKey(permuted, sk.Value),
	}, nil
}

// GenerateKeySwitchKey builds a key-switch key re-encrypting under
// targetSk what sourceSk encrypted, satisfying spec §8 scenario 6
// (encrypt under sk_1, switch to sk_2, decrypt under sk_2).
func (kg *KeyGenerator) GenerateKeySwitchKey(sourceSk, targetSk *SecretKey) *KeySwitchKey {
	return kg.generateKeySwitchKey(sourceSk.Value, targetSk.Value)
}

// GenerateEvaluationKey builds the full key bundle a ciphertext operator
// needs for the given set of Galois elements plus relinearization (spec
// §4.5's generate_evaluation_key).
func (kg *KeyGenerator) GenerateEvaluationKey(sk *SecretKey, galoisElements []uint64) (*EvaluationKey, error) {
	ek := &EvaluationKey{
		RelinKey:   kg.GenerateRelinearizationKey(sk),
		GaloisKeys: make(map[uint64]*GaloisKey, len(galoisElements)),
	}
	for _, g := range galoisElements {
		if _, ok := ek.GaloisKeys[g]; ok {
			continue
		}
		gk, err := kg.GenerateGaloisKey(sk, g)
		if err != nil {
			return nil, err
		}
		ek.GaloisKeys[g] = gk
	}
	return ek, nil
}

// generateKeySwitchKey implements the single-base decomposition: for
// each RNS channel i, a ciphertext encrypting source * (Q/q_i) mod Q
// under target (spec §4.6's permitted simplification of the
// special-modulus scheme).
func (kg *KeyGenerator) generateKeySwitchKey(source, target *ring.PolyRq) *KeySwitchKey {
	ctx := kg.params.RingQ()
	l := ctx.Levels()
	uniform := ring.NewUniformSampler(kg.prng, ctx)
	binomial := sampling.NewCenteredBinomialSampler(kg.prng, ctx, kg.params.ErrorBase())

	ksk := &KeySwitchKey{Value: make([][2]*ring.PolyRq, l)}
	qBig := ctx.ModulusBigInt()

	for i, mi := range ctx.Moduli() {
		// factor = (Q/q_i) mod q_j for every channel j; this is the
		// per-channel gadget scalar that decomposition in key_switch
		// multiplies the input digit by.
		qOverQi := new(big.Int).Div(qBig, new(big.Int).SetUint64(mi.Uint64()))
		factor := make([]uint64, l)
		for j, mj := range ctx.Moduli() {
			factor[j] = new(big.Int).Mod(qOverQi, new(big.Int).SetUint64(mj.Uint64())).Uint64()
		}

		a := uniform.ReadNew()
		e := binomial.ReadNew()
		ring.ForwardNTT(a)
		ring.ForwardNTT(e)

		c0 := a.CopyNew()
		_ = c0.MulAssign(target)
		_ = c0.AddAssign(e)
		c0.NegAssign()

		scaledSource := source.CopyNew()
		scaledSource.MultiplyByResidues(factor)
		_ = c0.AddAssign(scaledSource)

		ksk.Value[i] = [2]*ring.PolyRq{c0, a}
	}
	return ksk
}
