//go:build unix

package zeroize

import "golang.org/x/sys/unix"

// Lock pins b's backing pages off the swap path via mlock, best-effort:
// callers should not treat a non-nil error as fatal, since mlock commonly
// fails under restrictive container limits (RLIMIT_MEMLOCK).
func Lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Mlock(b)
}

// Unlock releases a region previously pinned by Lock.
func Unlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munlock(b)
}
