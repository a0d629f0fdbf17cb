package ring

import "errors"

// ErrNotInvertible is returned by InverseMod when gcd(x, p) != 1.
var ErrNotInvertible = errors.New("ring: element is not invertible modulo p")

// ErrNotEnoughPrimes is returned by GeneratePrimes when the search space is
// exhausted before the requested number of primes has been found.
var ErrNotEnoughPrimes = errors.New("ring: not enough NTT-friendly primes in the requested bit range")

// ErrFormatMismatch is returned by PolyRq operations that require operands
// to share the same Coeff/Eval format.
var ErrFormatMismatch = errors.New("ring: polynomial operands have mismatched formats")

// ErrContextMismatch is returned when two PolyRq values carry different
// PolyContext instances.
var ErrContextMismatch = errors.New("ring: polynomial operands belong to different contexts")
