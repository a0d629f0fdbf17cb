package bfv

import "github.com/apple/swift-homomorphic-encryption-sub002/rlwe"

// Evaluator wraps rlwe.Evaluator with the BFV-specific post-processing
// (relinearization after multiplication, mod-switch-down) a caller
// typically wants chained automatically.
type Evaluator struct {
	*rlwe.Evaluator
	params *rlwe.EncryptionParameters
}

// NewEvaluator builds a BFV evaluator for params.
func NewEvaluator(params *rlwe.EncryptionParameters) *Evaluator {
	return &Evaluator{Evaluator: rlwe.NewEvaluator(params), params: params}
}

// MulRelinNew multiplies ct0 by ct1 and immediately relinearizes the
// result back down to two polynomials (spec §4.6's relinearization
// following every ciphertext-ciphertext multiplication in the standard
// path).
func (ev *Evaluator) MulRelinNew(ct0, ct1 *rlwe.Ciphertext, ek *rlwe.EvaluationKey) (*rlwe.Ciphertext, error) {
	raw, err := ev.MulNew(ct0, ct1)
	if err != nil {
		return nil, err
	}
	return rlwe.Relinearize(raw, ek)
}
