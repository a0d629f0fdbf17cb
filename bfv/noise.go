package bfv

import (
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
	"github.com/montanaflynn/stats"
)

// NoiseEstimator computes the noise budget of ciphertexts under a known
// secret key, for diagnostics and the noise-budget-monotonicity property
// (spec §4.5, §8 scenario 8). bigfloat.Log2 is used because Q can exceed
// float64's exact-integer range for realistic parameter sets (60-bit
// primes times several RNS channels), so a plain math.Log2(float64(q))
// conversion would already have lost precision before the logarithm.
type NoiseEstimator struct {
	params *rlwe.EncryptionParameters
}

// NewNoiseEstimator builds an estimator for params.
func NewNoiseEstimator(params *rlwe.EncryptionParameters) *NoiseEstimator {
	return &NoiseEstimator{params: params}
}

// Budget returns the noise budget of ct decrypted under sk, in bits: the
// log2 ratio between the ciphertext modulus headroom (Q/t) and the
// magnitude of the residual error term, per coefficient, reduced to the
// worst case across all N coefficients (the bound a single erroneous
// coefficient would violate first), minus one further bit because
// decryption stays correct only while the error is below half of Q/t.
func (ne *NoiseEstimator) Budget(ct *rlwe.Ciphertext, sk *rlwe.SecretKey) (float64, error) {
	magnitudes, err := ne.noiseMagnitudes(ct, sk)
	if err != nil {
		return 0, err
	}
	maxMag, err := stats.Max(magnitudes)
	if err != nil {
		return 0, err
	}
	if maxMag <= 0 {
		maxMag = 1
	}

	q := ne.params.RingQ().ModulusBigInt()
	t := new(big.Int).SetUint64(ne.params.PlaintextModulus())
	headroom := new(big.Float).Quo(new(big.Float).SetInt(q), new(big.Float).SetInt(t))

	logHeadroom := bigfloat.Log2(headroom)
	logHeadroomF, _ := logHeadroom.Float64()

	return logHeadroomF - log2(maxMag) - 1, nil
}

// noiseMagnitudes returns, for every coefficient, the absolute value of
// the centered residual term (c0 + c1*s + ... mod Q) after removing the
// Delta*message component implied by decryption.
func (ne *NoiseEstimator) noiseMagnitudes(ct *rlwe.Ciphertext, sk *rlwe.SecretKey) ([]float64, error) {
	dec := rlwe.NewDecryptor(ne.params, sk)
	pt, err := dec.DecryptNew(ct)
	if err != nil {
		return nil, err
	}

	// Recompute the raw (non-scaled) inner product to recover the exact
	// residual: noise = raw - Delta*decoded_message, centered mod Q.
	polys := ct.Materialize()
	qCtx := ne.params.RingQ()
	acc := polys[0].CopyNew()
	if acc.Format() != ring.Eval {
		ring.ForwardNTT(acc)
	}
	sPow := sk.Value.CopyNew()
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
			if err := sPow.MulAssign(sk.Value); err != nil {
				return nil, err
			}
		}
	}
	ring.InverseNTT(acc)

	qBig := qCtx.ModulusBigInt()
	tBig := new(big.Int).SetUint64(ne.params.PlaintextModulus())
	delta := new(big.Int).Div(qBig, tBig)

	decoded := (&Encoder{params: ne.params}).DecodeCoeff(pt)
	n := qCtx.N()
	moduli := qCtx.Moduli()
	l := qCtx.Levels()
	half := new(big.Int).Rsh(qBig, 1)

	magnitudes := make([]float64, n)
	for c := 0; c < n; c++ {
		x := big.NewInt(0)
		for i := 0; i < l; i++ {
			qi := moduli[i].Uint64()
			qHat := new(big.Int).Div(qBig, new(big.Int).SetUint64(qi))
			qHatInv, err := moduli[i].InverseMod(new(big.Int).Mod(qHat, new(big.Int).SetUint64(qi)).Uint64())
			if err != nil {
				return nil, err
			}
			term := moduli[i].MulMod(acc.At(i)[c], qHatInv)
			x.Add(x, new(big.Int).Mul(qHat, new(big.Int).SetUint64(term)))
		}
		x.Mod(x, qBig)
		if x.Cmp(half) > 0 {
			x.Sub(x, qBig)
		}

		expected := new(big.Int).Mul(delta, big.NewInt(decoded[c]))
		residual := new(big.Int).Sub(x, expected)
		f := new(big.Float).SetInt(residual)
		abs, _ := f.Abs(f).Float64()
		magnitudes[c] = abs
	}
	return magnitudes, nil
}

func log2(x float64) float64 {
	if x <= 0 {
		return 0
	}
	bf := new(big.Float).SetFloat64(x)
	v, _ := bigfloat.Log2(bf).Float64()
	return v
}
