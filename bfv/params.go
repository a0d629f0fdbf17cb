package bfv

import "github.com/apple/swift-homomorphic-encryption-sub002/rlwe"

// Parameters is a thin alias over rlwe.EncryptionParameters: BFV adds no
// fields of its own to the ring/RLWE parameter set, only its choice of
// encode/decrypt formulas.
type Parameters = rlwe.EncryptionParameters

// NewParameters validates and builds BFV encryption parameters (spec
// §6's Encryption option group).
func NewParameters(polyDegree int, plaintextModulus uint64, coefficientModuli []uint64, errStd rlwe.ErrorStdDev, sec rlwe.SecurityLevel) (*Parameters, error) {
	return rlwe.NewEncryptionParameters(polyDegree, plaintextModulus, coefficientModuli, errStd, sec)
}
