// Package bfv implements the Brakerski-Fan-Vercauteren scheme's
// plaintext encoding and ciphertext arithmetic over the rlwe package's
// key management and ring package's polynomial primitives.
package bfv

import (
	"fmt"

	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

// Encoder maps integer vectors to and from Plaintext polynomials, in
// either Coefficient or SIMD layout (spec §4.5).
type Encoder struct {
	params *rlwe.EncryptionParameters
}

// NewEncoder builds an encoder for params.
func NewEncoder(params *rlwe.EncryptionParameters) *Encoder {
	return &Encoder{params: params}
}

// EncodeCoeff places values directly as polynomial coefficients mod t,
// zero-padding any remainder up to N. Signed values are mapped to
// residues via the centered-to-remainder convention.
func (e *Encoder) EncodeCoeff(values []int64) (*rlwe.Plaintext, error) {
	t := e.params.PlaintextModulus()
	n := e.params.N()
	if len(values) > n {
		return nil, fmt.Errorf("bfv: %w: %d values exceed ring degree %d", rlwe.ErrEncodingOutOfBounds, len(values), n)
	}

	ctx := e.singleModulusContext()
	poly := ring.NewPolyRq(ctx, ring.Coeff)
	row := poly.At(0)
	half := int64(t / 2)
	for i, v := range values {
		if v < -half-1 || v >= int64(t)-half {
			return nil, fmt.Errorf("bfv: %w: value %d out of range for modulus %d", rlwe.ErrEncodingOutOfBounds, v, t)
		}
		row[i] = ring.CenteredToRemainder(v, t)
	}
	return &rlwe.Plaintext{Value: poly}, nil
}

// DecodeCoeff reads values back out of a Coefficient-format plaintext,
// returning exactly N centered values.
func (e *Encoder) DecodeCoeff(pt *rlwe.Plaintext) []int64 {
	t := e.params.PlaintextModulus()
	row := pt.Value.At(0)
	out := make([]int64, len(row))
	for i, r := range row {
		out[i] = ring.RemainderToCentered(r, t)
	}
	return out
}

// EncodeSIMD maps values into N SIMD slots via the inverse NTT over Z_t
// (spec §4.5); requires t ≡ 1 (mod 2N), else fails with
// ErrUnsupportedEncoding.
func (e *Encoder) EncodeSIMD(values []int64) (*rlwe.Plaintext, error) {
	tCtx := e.params.RingT()
	if tCtx == nil {
		return nil, fmt.Errorf("bfv: %w: plaintext modulus does not support SIMD packing", rlwe.ErrUnsupportedEncoding)
	}
	t := e.params.PlaintextModulus()
	n := e.params.N()
	if len(values) > n {
		return nil, fmt.Errorf("bfv: %w: %d values exceed ring degree %d", rlwe.ErrEncodingOutOfBounds, len(values), n)
	}

	slots := ring.NewPolyRq(tCtx, ring.Eval)
	row := slots.At(0)
	for i, v := range values {
		row[i] = ring.CenteredToRemainder(v, t)
	}
	ring.InverseNTT(slots)
	return &rlwe.Plaintext{Value: slots}, nil
}

// DecodeSIMD is EncodeSIMD's inverse.
func (e *Encoder) DecodeSIMD(pt *rlwe.Plaintext) ([]int64, error) {
	tCtx := e.params.RingT()
	if tCtx == nil {
		return nil, fmt.Errorf("bfv: %w: plaintext modulus does not support SIMD packing", rlwe.ErrUnsupportedEncoding)
	}
	t := e.params.PlaintextModulus()
	coeff := pt.Value.CopyNew()
	ring.ForwardNTT(coeff)
	row := coeff.At(0)
	out := make([]int64, len(row))
	for i, r := range row {
		out[i] = ring.RemainderToCentered(r, t)
	}
	return out, nil
}

func (e *Encoder) singleModulusContext() *ring.PolyContext {
	if ctx := e.params.RingT(); ctx != nil {
		return ctx
	}
	return ring.NewNonNTTPolyContext(e.params.N(), e.params.PlaintextModulus())
}
