package rlwe

import (
	"math/big"

	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
)

// Evaluator applies homomorphic operations to ciphertexts over a fixed
// set of parameters (spec §4.5/§4.6). Stateless beyond params; every
// method is safe to call concurrently on distinct ciphertexts, per the
// "operations on distinct ciphertexts commute" resource policy.
type Evaluator struct {
	params *EncryptionParameters
}

// NewEvaluator builds an evaluator for params.
func NewEvaluator(params *EncryptionParameters) *Evaluator {
	return &Evaluator{params: params}
}

func matchFormat(a, b *ring.PolyRq) (*ring.PolyRq, *ring.PolyRq) {
	if a.Format() == b.Format() {
		return a, b
	}
	a2, b2 := a.CopyNew(), b.CopyNew()
	ring.ForwardNTT(a2)
	ring.ForwardNTT(b2)
	return a2, b2
}

// AddNew returns ct0+ct1 entrywise, lifting format automatically when the
// operands differ (spec §4.5's "automatic format lifting for mixed
// operands").
func (ev *Evaluator) AddNew(ct0, ct1 *Ciphertext) (*Ciphertext, error) {
	p0, p1 := ct0.Materialize(), ct1.Materialize()
	n := len(p0)
	if len(p1) > n {
		n = len(p1)
	}
	out := make([]*ring.PolyRq, n)
	for i := 0; i < n; i++ {
		var a, b *ring.PolyRq
		switch {
		case i < len(p0) && i < len(p1):
			a, b = matchFormat(p0[i], p1[i])
		case i < len(p0):
			out[i] = p0[i].CopyNew()
			continue
		default:
			out[i] = p1[i].CopyNew()
			continue
		}
		sum := a.CopyNew()
		if err := sum.AddAssign(b); err != nil {
			return nil, err
		}
		out[i] = sum
	}
	return NewCiphertext(ct0.Context(), out), nil
}

// SubNew returns ct0-ct1 entrywise.
func (ev *Evaluator) SubNew(ct0, ct1 *Ciphertext) (*Ciphertext, error) {
	neg, err := ev.NegNew(ct1)
	if err != nil {
		return nil, err
	}
	return ev.AddNew(ct0, neg)
}

// NegNew returns -ct entrywise.
func (ev *Evaluator) NegNew(ct *Ciphertext) (*Ciphertext, error) {
	polys := ct.Materialize()
	out := make([]*ring.PolyRq, len(polys))
	for i, p := range polys {
		np := p.CopyNew()
		np.NegAssign()
		out[i] = np
	}
	result := NewCiphertext(ct.Context(), out)
	result.CorrectionFactor = ct.CorrectionFactor
	return result, nil
}

// AddPlainNew returns ct+pt, lifting pt into Delta-scaled Q form first.
func (ev *Evaluator) AddPlainNew(ct *Ciphertext, pt *Plaintext, enc *Encryptor) (*Ciphertext, error) {
	scaled, err := enc.scalePlaintext(pt)
	if err != nil {
		return nil, err
	}
	polys := ct.Materialize()
	c0 := polys[0].CopyNew()
	if c0.Format() == ring.Eval {
		ring.ForwardNTT(scaled)
	}
	if err := c0.AddAssign(scaled); err != nil {
		return nil, err
	}
	out := append([]*ring.PolyRq{c0}, polys[1:]...)
	result := NewCiphertext(ct.Context(), out)
	result.CorrectionFactor = ct.CorrectionFactor
	return result, nil
}

// MulPlainNew returns ct*pt (pt's raw residues mod t, not Delta-scaled,
// multiplied entrywise into every polynomial of ct). ct must be in Eval
// format (spec §4.5: "PT·CT → CT (must be in Eval form)").
func (ev *Evaluator) MulPlainNew(ct *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	polys := ct.Materialize()
	if polys[0].Format() != ring.Eval {
		return nil, ErrUnsupportedHeOperation
	}
	ptQ := liftPlainToQCoeffs(ev.params, pt)
	ring.ForwardNTT(ptQ)

	out := make([]*ring.PolyRq, len(polys))
	for i, p := range polys {
		np := p.CopyNew()
		if err := np.MulAssign(ptQ); err != nil {
			return nil, err
		}
		out[i] = np
	}
	result := NewCiphertext(ct.Context(), out)
	result.CorrectionFactor = ct.CorrectionFactor
	return result, nil
}

// liftPlainToQCoeffs embeds pt's raw residues (mod t, not Delta-scaled)
// directly into the Q context, centered, for use as a multiplicative
// scalar polynomial rather than an additive Delta-scaled term.
func liftPlainToQCoeffs(params *EncryptionParameters, pt *Plaintext) *ring.PolyRq {
	qCtx := params.RingQ()
	t := params.PlaintextModulus()
	out := ring.NewPolyRq(qCtx, ring.Coeff)
	row := pt.Value.At(0)
	n := qCtx.N()
	for i := 0; i < n; i++ {
		v := ring.RemainderToCentered(row[i], t)
		for lvl, m := range qCtx.Moduli() {
			out.At(lvl)[i] = ring.CenteredToRemainder(v, m.Uint64())
		}
	}
	return out
}

// MulNew computes the raw ciphertext-ciphertext tensor product (c0d0,
// c0d1+c1d0, c1d1), scaled down by t/Q with rounding (spec §4.5). The
// result has degree 2 (three polynomials); callers relinearize
// separately via Relinearize.
func (ev *Evaluator) MulNew(ct0, ct1 *Ciphertext) (*Ciphertext, error) {
	if ct0.CorrectionFactor != 1 || ct1.CorrectionFactor != 1 {
		return nil, ErrUnsupportedHeOperation
	}
	p0, p1 := ct0.Materialize(), ct1.Materialize()
	if len(p0) != 2 || len(p1) != 2 {
		return nil, ErrUnsupportedHeOperation
	}
	a0, a1 := p0[0].CopyNew(), p0[1].CopyNew()
	b0, b1 := p1[0].CopyNew(), p1[1].CopyNew()
	ring.ForwardNTT(a0)
	ring.ForwardNTT(a1)
	ring.ForwardNTT(b0)
	ring.ForwardNTT(b1)

	d0 := a0.CopyNew()
	if err := d0.MulAssign(b0); err != nil {
		return nil, err
	}

	d1 := a0.CopyNew()
	if err := d1.MulAssign(b1); err != nil {
		return nil, err
	}
	t := a1.CopyNew()
	if err := t.MulAssign(b0); err != nil {
		return nil, err
	}
	if err := d1.AddAssign(t); err != nil {
		return nil, err
	}

	d2 := a1.CopyNew()
	if err := d2.MulAssign(b1); err != nil {
		return nil, err
	}

	qCtx := ev.params.RingQ()
	tVal := new(big.Int).SetUint64(ev.params.PlaintextModulus())
	qVal := qCtx.ModulusBigInt()

	scaled := make([]*ring.PolyRq, 3)
	for i, d := range []*ring.PolyRq{d0, d1, d2} {
		ring.InverseNTT(d)
		s, err := ring.ScaleRound(qCtx, d, tVal, qVal)
		if err != nil {
			return nil, err
		}
		scaled[i] = s
	}

	return NewCiphertext(qCtx, scaled), nil
}

// ModSwitchDownNew drops the last RNS channel via divide-and-round (spec
// §4.5). The correction factor is copied unchanged. The result lives over
// the truncated context; Decryptor and NoiseEstimator work over the
// parameters' full modulus and do not accept it.
func (ev *Evaluator) ModSwitchDownNew(ct *Ciphertext) (*Ciphertext, error) {
	polys := ct.Materialize()
	out := make([]*ring.PolyRq, len(polys))
	for i, p := range polys {
		wasEval := p.Format() == ring.Eval
		cp := p.CopyNew()
		if wasEval {
			ring.InverseNTT(cp)
		}
		reduced, err := ring.DivideAndRoundQLast(cp)
		if err != nil {
			return nil, err
		}
		if wasEval {
			ring.ForwardNTT(reduced)
		}
		out[i] = reduced
	}
	newCtx := out[0].Context()
	result := NewCiphertext(newCtx, out)
	result.CorrectionFactor = ct.CorrectionFactor
	return result, nil
}
