package keyword

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntKnownEncodings(t *testing.T) {
	require.Equal(t, []byte{0x96, 0x01}, EncodeVarInt(150))
	require.Equal(t, []byte{0x80, 0x80, 0x01}, EncodeVarInt(16384))
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 150, 16383, 16384, 1 << 32, ^uint64(0)}
	for _, v := range values {
		enc := EncodeVarInt(v)
		got, n, err := DecodeVarInt(enc)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(enc), n)
	}
}

func TestVarIntTruncated(t *testing.T) {
	_, _, err := DecodeVarInt([]byte{0x80, 0x80})
	require.ErrorIs(t, err, ErrVarIntTruncated)
}

func TestVarIntOverflow(t *testing.T) {
	buf := make([]byte, 0, 11)
	for i := 0; i < 10; i++ {
		buf = append(buf, 0x80)
	}
	buf = append(buf, 0x02)
	_, _, err := DecodeVarInt(buf)
	require.ErrorIs(t, err, ErrVarIntOverflow)
}
