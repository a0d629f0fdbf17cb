package rlwe

import "github.com/apple/swift-homomorphic-encryption-sub002/ring"

// ApplyGaloisNew applies σ_g to ct (spec §4.6): permutes each polynomial
// in coefficient form, then key-switches every polynomial beyond c0 using
// the (s(X^g) -> s(X)) key from ek, summing the resulting update pairs
// into a fresh two-polynomial ciphertext.
func (ev *Evaluator) ApplyGaloisNew(ct *Ciphertext, g uint64, ek *EvaluationKey) (*Ciphertext, error) {
	gk, err := ek.GaloisKeyFor(g)
	if err != nil {
		return nil, err
	}

	polys := ct.Materialize()
	if len(polys) != 2 {
		return nil, ErrUnsupportedHeOperation
	}
	ctx := ct.Context()

	wasEval := polys[0].Format() == ring.Eval
	p0, p1 := polys[0].CopyNew(), polys[1].CopyNew()
	if wasEval {
		ring.InverseNTT(p0)
		ring.InverseNTT(p1)
	}

	permuted0 := ctx.NewPoly(ring.Coeff)
	permuted1 := ctx.NewPoly(ring.Coeff)
	if err := ring.Automorphism(p0, g, permuted0); err != nil {
		return nil, err
	}
	if err := ring.Automorphism(p1, g, permuted1); err != nil {
		return nil, err
	}

	d0, d1, err := applyKeySwitchKey(permuted1, gk.Key)
	if err != nil {
		return nil, err
	}

	ring.ForwardNTT(d0)
	ring.ForwardNTT(d1)
	ring.ForwardNTT(permuted0)
	if err := d0.AddAssign(permuted0); err != nil {
		return nil, err
	}

	out := NewCiphertext(ctx, []*ring.PolyRq{d0, d1})
	out.CorrectionFactor = ct.CorrectionFactor
	if !wasEval {
		ring.InverseNTT(out.Polys[0])
		ring.InverseNTT(out.Polys[1])
	}
	return out, nil
}

// RotateColumnsNew rotates the SIMD row-major slots by k positions (spec
// §4.6): g = 3^k mod 2N.
func (ev *Evaluator) RotateColumnsNew(ct *Ciphertext, k int, ek *EvaluationKey) (*Ciphertext, error) {
	g := ring.GaloisElementForColumnRotation(ev.params.RingQ().NthRoot(), k)
	return ev.ApplyGaloisNew(ct, g, ek)
}

// RowSwapNew swaps the two SIMD rows (spec §4.6): g = 2N-1.
func (ev *Evaluator) RowSwapNew(ct *Ciphertext, ek *EvaluationKey) (*Ciphertext, error) {
	g := ring.GaloisElementForRowSwap(ev.params.RingQ().NthRoot())
	return ev.ApplyGaloisNew(ct, g, ek)
}

// KeyCompressionStrategy controls which Galois elements a multi-step
// rotation tree requires (spec §4.6/§4.7).
type KeyCompressionStrategy int

const (
	// KeyCompressionNone generates the column-rotation element 3^(2^j)
	// mod 2N for every j in 1..log N plus the row-swap element: largest
	// key set, no composition at query time.
	KeyCompressionNone KeyCompressionStrategy = iota
	// KeyCompressionHybrid mixes per-step keys with a multi-step tree.
	KeyCompressionHybrid
	// KeyCompressionMax uses the minimal key set via recursive doubling.
	KeyCompressionMax
)

// RequiredGaloisElements returns the Galois element set a given
// compression strategy needs to support SIMD slot rotations over a
// degree-N ring (spec §4.6's "Controlled by KeyCompressionStrategy").
// logDegree is log2(N).
func RequiredGaloisElements(nthRoot uint64, logDegree int, strategy KeyCompressionStrategy) []uint64 {
	elems := []uint64{ring.GaloisElementForRowSwap(nthRoot)}
	switch strategy {
	case KeyCompressionMax:
		// Minimal doubling set: 2^1+1 only; every rotation is reached by
		// repeated application plus row swap for sign/slot flips.
		elems = append(elems, ring.GaloisElementForColumnRotation(nthRoot, 1))
	case KeyCompressionHybrid:
		for j := 1; j <= logDegree; j += 2 {
			elems = append(elems, ring.GaloisElementForColumnRotation(nthRoot, 1<<uint(j)))
		}
	default: // KeyCompressionNone
		for j := 1; j <= logDegree; j++ {
			elems = append(elems, ring.GaloisElementForColumnRotation(nthRoot, 1<<uint(j)))
		}
	}
	return elems
}

// ExpansionGaloisElements returns the {2^s+1 mod nthRoot : s=1..logDegree}
// set the query-expansion doubling tree needs (spec §4.7). Unlike
// RequiredGaloisElements, this set is independent of
// KeyCompressionStrategy: every step of the tree applies a distinct
// automorphism, and the full log N set is required regardless of how
// slot rotations elsewhere are compressed.
func ExpansionGaloisElements(nthRoot uint64, logDegree int) []uint64 {
	elems := make([]uint64, 0, logDegree)
	for s := 1; s <= logDegree; s++ {
		elems = append(elems, (uint64(1)<<uint(s)+1)%nthRoot)
	}
	return elems
}
