package keyword

import (
	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

// ExpandCiphertexts implements the query-expansion doubling tree (spec
// §4.7): given one Coeff ciphertext encrypting (b_0, ..., b_{2^logDegree-1},
// 0, ...) and an evaluation key holding the Galois elements {2^j+1}, it
// recovers outputCount ciphertexts, the i-th encrypting (b_i, 0, 0, ...).
// Recursion proceeds from s=logDegree down to s=1; the recursion prunes
// once every slot up to outputCount has a leaf, per the spec's early-exit
// rule for input counts smaller than a full power-of-two tree.
func ExpandCiphertexts(ct *rlwe.Ciphertext, logDegree int, outputCount int, ev *rlwe.Evaluator, ek *rlwe.EvaluationKey) ([]*rlwe.Ciphertext, error) {
	nthRoot := uint64(1) << uint(logDegree+1)
	return expandStep(ct, logDegree, nthRoot, outputCount, ev, ek)
}

func expandStep(ct *rlwe.Ciphertext, s int, nthRoot uint64, need int, ev *rlwe.Evaluator, ek *rlwe.EvaluationKey) ([]*rlwe.Ciphertext, error) {
	if s == 0 || need <= 1 {
		return []*rlwe.Ciphertext{ct}, nil
	}

	g := galoisElementForStep(s, nthRoot)
	sigma, err := ev.ApplyGaloisNew(ct, g, ek)
	if err != nil {
		return nil, err
	}

	sum, err := ev.AddNew(ct, sigma)
	if err != nil {
		return nil, err
	}
	diff, err := ev.SubNew(ct, sigma)
	if err != nil {
		return nil, err
	}
	shifted, err := multiplyByInversePowerOfX(diff, 1<<uint(s-1))
	if err != nil {
		return nil, err
	}

	half := need / 2
	if need%2 == 1 {
		half++
	}
	left, err := expandStep(sum, s-1, nthRoot, half, ev, ek)
	if err != nil {
		return nil, err
	}
	right, err := expandStep(shifted, s-1, nthRoot, need-len(left), ev, ek)
	if err != nil {
		return nil, err
	}
	return append(left, right...), nil
}

// galoisElementForStep returns σ's Galois element for log_step s: 2^s+1.
func galoisElementForStep(s int, nthRoot uint64) uint64 {
	return (uint64(1)<<uint(s) + 1) % nthRoot
}

// multiplyByInversePowerOfX applies X^-k to every polynomial of ct
// (negacyclic shift, spec §4.7's "X^{-2^{s-1}} ·" term), converting to
// Coeff format first if necessary and restoring the original format.
func multiplyByInversePowerOfX(ct *rlwe.Ciphertext, k int) (*rlwe.Ciphertext, error) {
	polys := ct.Materialize()
	out := make([]*ring.PolyRq, len(polys))
	for i, p := range polys {
		wasEval := p.Format() == ring.Eval
		cp := p.CopyNew()
		if wasEval {
			ring.InverseNTT(cp)
		}
		if err := cp.MultiplyInversePowerOfX(k); err != nil {
			return nil, err
		}
		if wasEval {
			ring.ForwardNTT(cp)
		}
		out[i] = cp
	}
	result := rlwe.NewCiphertext(ct.Context(), out)
	result.CorrectionFactor = ct.CorrectionFactor
	return result, nil
}
