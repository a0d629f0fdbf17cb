// Package zeroize provides a compiler-elision-resistant zero-fill
// primitive for clearing secret key material before it is released.
package zeroize

import "runtime"

// Bytes overwrites every byte of b with zero. The runtime.KeepAlive call
// after the loop prevents the compiler from proving the write dead and
// eliding it, which a plain `for i := range b { b[i] = 0 }` is otherwise
// vulnerable to once b is never read again.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// Uint64s overwrites every element of s with zero.
func Uint64s(s []uint64) {
	for i := range s {
		s[i] = 0
	}
	runtime.KeepAlive(s)
}
