package ring

import "github.com/klauspost/cpuid/v2"

// hasFastLazyReduction records whether the host reports AVX2 or ASIMD
// support. No NTT path reads it: ForwardNTT and InverseNTT run the same
// portable pure-Go butterflies on every host.
var hasFastLazyReduction = cpuid.CPU.Supports(cpuid.AVX2) || cpuid.CPU.Supports(cpuid.ASIMD)

// ForwardNTT converts a PolyRq from Coeff to Eval format in place using the
// Cooley-Tukey forward NTT with lazy Montgomery reduction (spec §4.3).
// It is a no-op if the polynomial is already in Eval format.
func ForwardNTT(p *PolyRq) {
	if p.format == Eval {
		return
	}
	ctx := p.ctx
	n := ctx.n
	for i, m := range ctx.moduli {
		nttCooleyTukey(p.coeffs[i], n, ctx.nttPsi[i], m.Uint64(), m.mRedParams, m.bRedParams)
	}
	p.format = Eval
}

// InverseNTT converts a PolyRq from Eval to Coeff format in place using the
// Gentleman-Sande inverse NTT. It is a no-op if already in Coeff format.
func InverseNTT(p *PolyRq) {
	if p.format == Coeff {
		return
	}
	ctx := p.ctx
	n := ctx.n
	for i, m := range ctx.moduli {
		nttGentlemanSande(p.coeffs[i], n, ctx.nttPsiInv[i], ctx.nttNInv[i], m.Uint64(), m.mRedParams)
	}
	p.format = Coeff
}

// ConvertFormat returns a new PolyRq in the target format, converting via
// NTT if necessary (spec §4.3: converting to the current format is a
// no-op, implemented here by returning a copy rather than aliasing so
// callers can treat the result as an independent value).
func ConvertFormat(p *PolyRq, target Format) *PolyRq {
	out := p.CopyNew()
	if target == Eval {
		ForwardNTT(out)
	} else {
		InverseNTT(out)
	}
	return out
}

// butterfly computes X, Y = U + V*Psi, U - V*Psi mod Q using lazy,
// Montgomery-reduced arithmetic (grounded on the teacher's ring/ntt.go).
func butterfly(u, v, psi, q, qInv uint64) (x, y uint64) {
	if u >= 2*q {
		u -= 2 * q
	}
	v = mRed(v, psi, q, qInv)
	x = u + v
	y = u + 2*q - v
	return
}

func invButterfly(u, v, psi, q, qInv uint64) (x, y uint64) {
	x = u + v
	if x >= 2*q {
		x -= 2 * q
	}
	y = mRed(u+2*q-v, psi, q, qInv)
	return
}

func nttCooleyTukey(coeffs []uint64, n int, psi []uint64, q, qInv uint64, bRedP [2]uint64) {
	t := n >> 1
	j2 := t - 1
	f := psi[1]
	for j := 0; j <= j2; j++ {
		coeffs[j], coeffs[j+t] = butterfly(coeffs[j], coeffs[j+t], f, q, qInv)
	}

	for m := 2; m < n; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			j1 := (i * t) << 1
			j2 := j1 + t - 1
			f := psi[m+i]
			for j := j1; j <= j2; j++ {
				coeffs[j], coeffs[j+t] = butterfly(coeffs[j], coeffs[j+t], f, q, qInv)
			}
		}
	}

	for i := range coeffs {
		coeffs[i] = bRedAdd(coeffs[i], q, bRedP)
	}
}

func nttGentlemanSande(coeffs []uint64, n int, psiInv []uint64, nInv, q, qInv uint64) {
	t := 1
	j1 := 0
	h := n >> 1

	for i := 0; i < h; i++ {
		j2 := j1
		f := psiInv[h+i]
		for j := j1; j <= j2; j++ {
			coeffs[j], coeffs[j+t] = invButterfly(coeffs[j], coeffs[j+t], f, q, qInv)
		}
		j1 += t << 1
	}

	t <<= 1
	for m := n >> 1; m > 1; m >>= 1 {
		j1 = 0
		h = m >> 1
		for i := 0; i < h; i++ {
			j2 := j1 + t - 1
			f := psiInv[h+i]
			for j := j1; j <= j2; j++ {
				coeffs[j], coeffs[j+t] = invButterfly(coeffs[j], coeffs[j+t], f, q, qInv)
			}
			j1 += t << 1
		}
		t <<= 1
	}

	for j := range coeffs {
		coeffs[j] = mRed(coeffs[j], nInv, q, qInv)
	}
}
