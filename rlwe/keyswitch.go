package rlwe

import "github.com/apple/swift-homomorphic-encryption-sub002/ring"

// applyKeySwitchKey implements key_switch (spec §4.6) under the
// single-base RNS decomposition: ctPoly, already split into one "digit"
// per RNS channel by virtue of RNS representation itself, is multiplied
// channel-by-channel against the matching key-switch ciphertext and
// summed. Returns the "update pair" (d0, d1) to be added into the
// ciphertext under reconstruction.
func applyKeySwitchKey(ctPoly *ring.PolyRq, ksk *KeySwitchKey) (d0, d1 *ring.PolyRq, err error) {
	ctx := ctPoly.Context()
	coeffForm := ctPoly
	if ctPoly.Format() != ring.Coeff {
		coeffForm = ctPoly.CopyNew()
		ring.InverseNTT(coeffForm)
	}

	d0 = ctx.NewPoly(ring.Eval)
	d1 = ctx.NewPoly(ring.Eval)

	l := ctx.Levels()
	for i := 0; i < l; i++ {
		digit, err := ring.DecomposeChannel(ctx, coeffForm, i)
		if err != nil {
			return nil, nil, err
		}
		ring.ForwardNTT(digit)

		c0i := ksk.Value[i][0].CopyNew()
		if err := c0i.MulAssign(digit); err != nil {
			return nil, nil, err
		}
		c1i := ksk.Value[i][1].CopyNew()
		if err := c1i.MulAssign(digit); err != nil {
			return nil, nil, err
		}

		if err := d0.AddAssign(c0i); err != nil {
			return nil, nil, err
		}
		if err := d1.AddAssign(c1i); err != nil {
			return nil, nil, err
		}
	}

	if ctPoly.Format() == ring.Coeff {
		ring.InverseNTT(d0)
		ring.InverseNTT(d1)
	}
	return d0, d1, nil
}

// Relinearize key-switches ct's c2 polynomial using the s^2->s key and
// reduces the ciphertext back to two polynomials (spec §4.6).
func Relinearize(ct *Ciphertext, ek *EvaluationKey) (*Ciphertext, error) {
	polys := ct.Materialize()
	if len(polys) < 3 {
		out := ct.CopyNew()
		return out, nil
	}
	c2 := polys[2]
	d0, d1, err := applyKeySwitchKey(c2, ek.RelinKey.Key)
	if err != nil {
		return nil, err
	}

	c0 := polys[0].CopyNew()
	c1 := polys[1].CopyNew()
	if err := c0.AddAssign(d0); err != nil {
		return nil, err
	}
	if err := c1.AddAssign(d1); err != nil {
		return nil, err
	}
	for i := 3; i < len(polys); i++ {
		if !polys[i].IsZero(true) {
			return nil, ErrUnsupportedHeOperation
		}
	}
	out := NewCiphertext(ct.Context(), []*ring.PolyRq{c0, c1})
	out.CorrectionFactor = ct.CorrectionFactor
	return out, nil
}
