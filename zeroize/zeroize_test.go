package zeroize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesZeroesEveryElement(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	Bytes(b)
	require.Equal(t, []byte{0, 0, 0, 0, 0}, b)
}

func TestUint64sZeroesEveryElement(t *testing.T) {
	s := []uint64{1, 2, 3}
	Uint64s(s)
	require.Equal(t, []uint64{0, 0, 0}, s)
}

func TestLockUnlockRoundTrip(t *testing.T) {
	b := make([]byte, 4096)
	// Lock may fail under a restrictive RLIMIT_MEMLOCK; only check that
	// Unlock doesn't panic when paired with a successful Lock.
	if err := Lock(b); err == nil {
		require.NoError(t, Unlock(b))
	}
}
