package ring

import "math/big"

// BaseConverter converts PolyRq values between two RNS bases (spec §4.4),
// grounded on the teacher's ring/basis_extension.go shape: a converter
// precomputes, for every output modulus, the cross-product of input
// moduli reduced into that output modulus, so that both
// ConvertApproximate and DivideAndRound are a single pass per coefficient.
type BaseConverter struct {
	in  *PolyContext
	out *PolyContext

	// qiInvModQi[i] = (Q/q_i)^-1 mod q_i, for the input base's L_in moduli.
	qiInvModQi []uint64

	// qiHatModQj[i][j] = (Q_in/q_i) mod outModuli[j], used by
	// ConvertApproximate's reconstruction.
	qiHatModQj [][]uint64
}

// NewBaseConverter precomputes the conversion tables from the input
// context's RNS base to the output context's.
func NewBaseConverter(in, out *PolyContext) *BaseConverter {
	bc := &BaseConverter{in: in, out: out}

	qIn := in.ModulusBigInt()
	l := in.Levels()
	bc.qiInvModQi = make([]uint64, l)
	bc.qiHatModQj = make([][]uint64, l)

	for i, mi := range in.Moduli() {
		qi := new(big.Int).SetUint64(mi.Uint64())
		qHat := new(big.Int).Div(qIn, qi) // Q_in / q_i

		qHatModQi := new(big.Int).Mod(qHat, qi)
		inv, err := mi.InverseMod(qHatModQi.Uint64())
		if err != nil {
			panic(err) // the moduli are pairwise coprime by construction
		}
		bc.qiInvModQi[i] = inv

		row := make([]uint64, out.Levels())
		for j, mj := range out.Moduli() {
			row[j] = new(big.Int).Mod(qHat, new(big.Int).SetUint64(mj.Uint64())).Uint64()
		}
		bc.qiHatModQj[i] = row
	}

	return bc
}

// DecomposeChannel extracts RNS channel i of p as a small-coefficient
// digit (spec §4.6's key-switch decomposition): for each coefficient c,
// t = p.coeffs[i][c] * (Q/q_i)^-1 mod q_i, then broadcasts t (a value
// < q_i) into every channel of ctx by plain reduction, since a value
// smaller than q_i needs no CRT reconstruction to embed into another
// channel. The result is in Coeff format and is the single-base
// decomposition's "digit" that a key-switch ciphertext is multiplied
// against.
func DecomposeChannel(ctx *PolyContext, p *PolyRq, i int) (*PolyRq, error) {
	if p.format != Coeff {
		return nil, ErrFormatMismatch
	}
	if p.ctx != ctx {
		return nil, ErrContextMismatch
	}
	qBig := ctx.ModulusBigInt()
	mi := ctx.moduli[i]
	qi := mi.Uint64()
	qHat := new(big.Int).Div(qBig, new(big.Int).SetUint64(qi))
	qHatModQi := new(big.Int).Mod(qHat, new(big.Int).SetUint64(qi)).Uint64()
	qHatInv, err := mi.InverseMod(qHatModQi)
	if err != nil {
		return nil, err
	}

	n := ctx.N()
	src := p.coeffs[i]
	digit := make([]uint64, n)
	for c := 0; c < n; c++ {
		digit[c] = mi.MulMod(src[c], qHatInv)
	}

	out := NewPolyRq(ctx, Coeff)
	for lvl, mj := range ctx.moduli {
		qj := mj.Uint64()
		dst := out.coeffs[lvl]
		if qj > qi {
			copy(dst, digit)
		} else {
			for c, v := range digit {
				dst[c] = v % qj
			}
		}
	}
	return out, nil
}

// ConvertApproximate computes, for each output modulus q_j and each
// coefficient index c, sum_i [(x_i * qHat_i^-1 mod q_i)] * qHat_i mod q_j,
// where x_i is the input coefficient's residue mod q_i (spec §4.4). The
// result equals the true lift of x modulo Q_in, reduced mod q_j, up to an
// overflow term a*Q_in for some small a in [0, L_in).
func (bc *BaseConverter) ConvertApproximate(in *PolyRq) (*PolyRq, error) {
	if in.format != Coeff {
		return nil, ErrFormatMismatch
	}
	if in.ctx != bc.in {
		return nil, ErrContextMismatch
	}

	out := NewPolyRq(bc.out, Coeff)
	n := bc.in.N()
	lIn := bc.in.Levels()

	for j, mj := range bc.out.Moduli() {
		dst := out.coeffs[j]
		for c := 0; c < n; c++ {
			var acc uint64
			for i := 0; i < lIn; i++ {
				mi := bc.in.moduli[i]
				xi := in.coeffs[i][c]
				t := mi.MulMod(xi, bc.qiInvModQi[i]) // residual term in [0, q_i)
				term := mj.MulMod(t, bc.qiHatModQj[i][j])
				acc = mj.Add(acc, term)
			}
			dst[c] = acc
		}
	}
	return out, nil
}

// CrtCompose returns the canonical lift in [0, Q) of every coefficient of
// in, via the Chinese Remainder Theorem. Setup-only and variable-time
// (spec §4.4).
func (bc *BaseConverter) CrtCompose(in *PolyRq) ([]*big.Int, error) {
	if in.ctx != bc.in {
		return nil, ErrContextMismatch
	}
	q := bc.in.ModulusBigInt()
	n := bc.in.N()
	out := make([]*big.Int, n)

	for c := 0; c < n; c++ {
		acc := big.NewInt(0)
		for i, mi := range bc.in.moduli {
			qi := new(big.Int).SetUint64(mi.Uint64())
			qHat := new(big.Int).Div(q, qi)
			term := new(big.Int).Mul(qHat, new(big.Int).SetUint64(bc.qiInvModQi[i]))
			term.Mul(term, new(big.Int).SetUint64(in.coeffs[i][c]))
			acc.Add(acc, term)
		}
		acc.Mod(acc, q)
		out[c] = acc
	}
	return out, nil
}

// DivideAndRound scales a polynomial from the input base to the output
// base's modulus Q_out, preserving the underlying ring element up to
// rounding: each coefficient x is mapped to round(x * Q_out / Q_in)
// (spec §4.4).
func (bc *BaseConverter) DivideAndRound(in *PolyRq) (*PolyRq, error) {
	if in.ctx != bc.in {
		return nil, ErrContextMismatch
	}
	lifted, err := bc.CrtCompose(in)
	if err != nil {
		return nil, err
	}
	qIn := bc.in.ModulusBigInt()
	qOut := bc.out.ModulusBigInt()

	out := NewPolyRq(bc.out, Coeff)
	half := new(big.Int).Rsh(qIn, 1)
	for c, x := range lifted {
		scaled := new(big.Int).Mul(x, qOut)
		// round(scaled/qIn) via floor((scaled + qIn/2) / qIn).
		scaled.Add(scaled, half)
		scaled.Div(scaled, qIn)
		for j, mj := range bc.out.moduli {
			out.coeffs[j][c] = new(big.Int).Mod(scaled, new(big.Int).SetUint64(mj.Uint64())).Uint64()
		}
	}
	return out, nil
}

// ScaleRound multiplies every coefficient of p (first CRT-lifted to its
// canonical representative in [0, Q)) by num/den with rounding, and
// re-embeds the result into ctx's RNS base. This is the rescale step
// BFV ciphertext multiplication needs (spec §4.5: "scaling by t/Q with
// rounding"), expressed generally enough to also serve any other
// num/den rescale a future scheme variant might need.
func ScaleRound(ctx *PolyContext, p *PolyRq, num, den *big.Int) (*PolyRq, error) {
	if p.ctx != ctx || p.format != Coeff {
		return nil, ErrContextMismatch
	}
	q := ctx.ModulusBigInt()
	l := ctx.Levels()
	n := ctx.N()
	half := new(big.Int).Rsh(q, 1)

	out := NewPolyRq(ctx, Coeff)
	for c := 0; c < n; c++ {
		x := big.NewInt(0)
		for i := 0; i < l; i++ {
			qi := ctx.moduli[i].Uint64()
			qHat := new(big.Int).Div(q, new(big.Int).SetUint64(qi))
			qHatInv, err := ctx.moduli[i].InverseMod(new(big.Int).Mod(qHat, new(big.Int).SetUint64(qi)).Uint64())
			if err != nil {
				return nil, err
			}
			term := ctx.moduli[i].MulMod(p.coeffs[i][c], qHatInv)
			x.Add(x, new(big.Int).Mul(qHat, new(big.Int).SetUint64(term)))
		}
		x.Mod(x, q)
		// Center x around zero before scaling so rounding behaves
		// symmetrically for representatives close to Q.
		if x.Cmp(half) > 0 {
			x.Sub(x, q)
		}

		scaled := new(big.Int).Mul(x, num)
		neg := scaled.Sign() < 0
		if neg {
			scaled.Neg(scaled)
		}
		halfDen := new(big.Int).Rsh(den, 1)
		scaled.Add(scaled, halfDen)
		scaled.Div(scaled, den)
		if neg {
			scaled.Neg(scaled)
		}

		for lvl, m := range ctx.moduli {
			out.coeffs[lvl][c] = new(big.Int).Mod(scaled, new(big.Int).SetUint64(m.Uint64())).Uint64()
		}
	}
	return out, nil
}

// DivideAndRoundQLast removes the last RNS channel from in, producing a
// PolyRq over the truncated context, preserving the ring element up to
// rounding (spec §4.2): subtract the residue in the last channel, then
// multiply each remaining channel by q_last^-1 mod q_i.
func DivideAndRoundQLast(in *PolyRq) (*PolyRq, error) {
	if in.format != Coeff {
		return nil, ErrFormatMismatch
	}
	truncCtx, err := in.ctx.WithoutLastModulus()
	if err != nil {
		return nil, err
	}
	l := in.Levels()
	last := in.ctx.moduli[l-1]
	qLast := last.Uint64()
	n := in.N()

	out := NewPolyRq(truncCtx, Coeff)

	// Center the last channel's residues around zero so that subtracting
	// them from the other channels implements rounding, not truncation.
	centered := make([]int64, n)
	half := int64(qLast / 2)
	for c := 0; c < n; c++ {
		v := int64(in.coeffs[l-1][c])
		if v > half {
			v -= int64(qLast)
		}
		centered[c] = v
	}

	for i := 0; i < l-1; i++ {
		mi := truncCtx.moduli[i]
		qLastInv, err := mi.InverseMod(qLast % mi.Uint64())
		if err != nil {
			return nil, err
		}
		src := in.coeffs[i]
		dst := out.coeffs[i]
		qi := mi.Uint64()
		for c := 0; c < n; c++ {
			cj := centered[c] % int64(qi)
			if cj < 0 {
				cj += int64(qi)
			}
			diff := mi.Sub(src[c], uint64(cj))
			dst[c] = mi.MulMod(diff, qLastInv)
		}
	}
	return out, nil
}
