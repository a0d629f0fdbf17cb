package rlwe

import (
	"math/big"

	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
)

// Decryptor decrypts ciphertexts under a fixed secret key.
type Decryptor struct {
	params *EncryptionParameters
	sk     *SecretKey
}

// NewDecryptor builds a decryptor for sk.
func NewDecryptor(params *EncryptionParameters, sk *SecretKey) *Decryptor {
	return &Decryptor{params: params, sk: sk}
}

// DecryptNew computes c0 + c1*s + c2*s^2 + ... (spec §4.5), scales by
// t/Q with rounding, and reduces mod t, returning a Plaintext.
func (dec *Decryptor) DecryptNew(ct *Ciphertext) (*Plaintext, error) {
	polys := ct.Materialize()
	qCtx := dec.params.RingQ()

	acc := polys[0].CopyNew()
	if acc.Format() != ring.Eval {
		ring.ForwardNTT(acc)
	}
	sPow := dec.sk.Value.CopyNew()
	for i := 1; i < len(polys); i++ {
		term := polys[i].CopyNew()
		if term.Format() != ring.Eval {
			ring.ForwardNTT(term)
		}
		if err := term.MulAssign(sPow); err != nil {
			return nil, err
		}
		if err := acc.AddAssign(term); err != nil {
			return nil, err
		}
		if i+1 < len(polys) {
			if err := sPow.MulAssign(dec.sk.Value); err != nil {
				return nil, err
			}
		}
	}
	ring.InverseNTT(acc)

	t := dec.params.PlaintextModulus()
	tBig := new(big.Int).SetUint64(t)
	qBig := qCtx.ModulusBigInt()
	l := qCtx.Levels()
	n := qCtx.N()

	out := ring.NewPolyRq(singleModulusContextOrPanic(dec.params, t), ring.Coeff)
	dst := out.At(0)

	moduli := qCtx.Moduli()
	for c := 0; c < n; c++ {
		// CRT-compose coefficient c, scale by t, round, divide by Q.
		x := big.NewInt(0)
		for i := 0; i < l; i++ {
			qi := moduli[i].Uint64()
			qHat := new(big.Int).Div(qBig, new(big.Int).SetUint64(qi))
			qHatInvModQi, err := moduli[i].InverseMod(new(big.Int).Mod(qHat, new(big.Int).SetUint64(qi)).Uint64())
			if err != nil {
				return nil, err
			}
			residue := acc.At(i)[c]
			term := moduli[i].MulMod(residue, qHatInvModQi)
			x.Add(x, new(big.Int).Mul(qHat, new(big.Int).SetUint64(term)))
		}
		x.Mod(x, qBig)

		scaled := new(big.Int).Mul(x, tBig)
		half := new(big.Int).Rsh(qBig, 1)
		scaled.Add(scaled, half)
		scaled.Div(scaled, qBig)
		scaled.Mod(scaled, tBig)
		dst[c] = scaled.Uint64()
	}

	return &Plaintext{Value: out}, nil
}

// singleModulusContextOrPanic is a decryptor-local helper: it reuses the
// parameters' RingT when t is NTT-friendly, else builds a throwaway
// single-modulus context whose NTT tables are never exercised by plain
// Coefficient-format storage.
func singleModulusContextOrPanic(params *EncryptionParameters, t uint64) *ring.PolyContext {
	if ctx := params.RingT(); ctx != nil {
		return ctx
	}
	return ring.NewNonNTTPolyContext(params.N(), t)
}
