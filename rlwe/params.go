package rlwe

import (
	"fmt"

	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
)

// SecurityLevel gates rejection of weak parameter choices at construction
// (spec §6's Encryption.securityLevel option).
type SecurityLevel int

const (
	// SecurityUnchecked performs no security-bound validation.
	SecurityUnchecked SecurityLevel = iota
	// SecurityQuantum128 requires logQ to stay within the conservative
	// post-quantum 128-bit bound for the chosen ring degree, per the
	// conventional HE security-estimate tables (grounded on the
	// teacher's utils/rlwe security-check approach of a degree->maxLogQ
	// lookup rather than a live lattice-estimator call).
	SecurityQuantum128
)

// ErrorStdDev names the supported centered-binomial error widths (spec
// §6's Encryption.errorStdDev option). Only one enum value is specified;
// the type exists so EncryptionParameters carries intent, not a raw base.
type ErrorStdDev int

const (
	// StdDev32 selects a centered binomial distribution of base 20
	// (variance 10, standard deviation about 3.2), conventional for
	// BFV/BGV noise.
	StdDev32 ErrorStdDev = iota
)

func (e ErrorStdDev) binomialBase() int {
	switch e {
	case StdDev32:
		return 20
	default:
		return 12
	}
}

// quantum128MaxLogQ maps a ring degree to the maximum total ciphertext
// modulus bit-width considered to deliver 128 bits of post-quantum
// security, drawn from the conventional degree-doubling table used
// across lattice-crypto implementations.
var quantum128MaxLogQ = map[int]int{
	1024:  27,
	2048:  54,
	4096:  109,
	8192:  218,
	16384: 438,
	32768: 881,
}

// EncryptionParameters fixes a BFV instance: the ring degree, plaintext
// modulus, ciphertext modulus chain, error width, and security posture
// (spec §6's Encryption option group).
type EncryptionParameters struct {
	polyDegree        int
	plaintextModulus  uint64
	coefficientModuli []uint64
	errorStdDev       ErrorStdDev
	securityLevel     SecurityLevel

	qCtx *ring.PolyContext // ciphertext-modulus ring context
	tCtx *ring.PolyContext // single-modulus plaintext ring context (for SIMD encode/decode)
}

// NewEncryptionParameters validates and builds an EncryptionParameters.
// Returns ErrInvalidEncryptionParameters or ErrInsecureEncryptionParameters
// (both wrapped with detail) rather than panicking, so construction
// failures surface before any expensive sampling.
func NewEncryptionParameters(polyDegree int, plaintextModulus uint64, coefficientModuli []uint64, errStd ErrorStdDev, sec SecurityLevel) (*EncryptionParameters, error) {
	if polyDegree <= 0 || polyDegree&(polyDegree-1) != 0 || polyDegree < 8 {
		return nil, fmt.Errorf("%w: polyDegree %d must be a power of two >= 8", ErrInvalidEncryptionParameters, polyDegree)
	}
	if !ring.IsPrime(plaintextModulus) {
		return nil, fmt.Errorf("%w: plaintextModulus %d is not prime", ErrInvalidEncryptionParameters, plaintextModulus)
	}
	if len(coefficientModuli) == 0 {
		return nil, fmt.Errorf("%w: coefficientModuli must be non-empty", ErrInvalidEncryptionParameters)
	}
	for _, q := range coefficientModuli {
		if q <= plaintextModulus {
			return nil, fmt.Errorf("%w: coefficientModulus %d must exceed plaintextModulus %d", ErrInvalidEncryptionParameters, q, plaintextModulus)
		}
	}

	qCtx, err := ring.NewPolyContext(polyDegree, coefficientModuli)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncryptionParameters, err)
	}

	p := &EncryptionParameters{
		polyDegree:        polyDegree,
		plaintextModulus:  plaintextModulus,
		coefficientModuli: append([]uint64(nil), coefficientModuli...),
		errorStdDev:       errStd,
		securityLevel:     sec,
		qCtx:              qCtx,
	}

	if (plaintextModulus-1)%uint64(2*polyDegree) == 0 {
		tCtx, err := ring.NewPolyContext(polyDegree, []uint64{plaintextModulus})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncryptionParameters, err)
		}
		p.tCtx = tCtx
	}

	if sec == SecurityQuantum128 {
		maxLogQ, ok := quantum128MaxLogQ[polyDegree]
		if !ok {
			return nil, fmt.Errorf("%w: no security bound tabulated for degree %d", ErrInsecureEncryptionParameters, polyDegree)
		}
		if qCtx.LogQ() > maxLogQ {
			return nil, fmt.Errorf("%w: logQ=%d exceeds %d-bit bound for degree %d", ErrInsecureEncryptionParameters, qCtx.LogQ(), maxLogQ, polyDegree)
		}
	}

	return p, nil
}

// N returns the ring degree.
func (p *EncryptionParameters) N() int { return p.polyDegree }

// PlaintextModulus returns t.
func (p *EncryptionParameters) PlaintextModulus() uint64 { return p.plaintextModulus }

// RingQ returns the ciphertext-modulus polynomial context.
func (p *EncryptionParameters) RingQ() *ring.PolyContext { return p.qCtx }

// RingT returns the single-modulus plaintext context usable for SIMD
// encoding, or nil if t is not NTT-friendly (t ≢ 1 mod 2N), in which case
// only Coefficient encoding is available.
func (p *EncryptionParameters) RingT() *ring.PolyContext { return p.tCtx }

// SupportsSIMDEncoding reports whether t ≡ 1 (mod 2N).
func (p *EncryptionParameters) SupportsSIMDEncoding() bool { return p.tCtx != nil }

// ErrorBase returns the centered-binomial base implied by errorStdDev.
func (p *EncryptionParameters) ErrorBase() int { return p.errorStdDev.binomialBase() }

// MinNoiseBudget is the scheme-defined threshold, in bits, below which
// decryption risks error (spec §4.5).
func (p *EncryptionParameters) MinNoiseBudget() float64 { return 3.0 }
