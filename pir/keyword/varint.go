// Package keyword implements index-PIR over BFV (MulPIR) with a cuckoo
// hash front-end mapping keywords to bucket positions.
package keyword

import (
	"errors"
	"fmt"
)

// ErrVarIntTruncated is returned when a buffer ends mid-varint (spec §7).
var ErrVarIntTruncated = errors.New("keyword: varint truncated")

// ErrVarIntOverflow is returned when a varint would exceed 64 bits or
// exceeds the 10-byte maximum protobuf-compatible encoding length.
var ErrVarIntOverflow = errors.New("keyword: varint overflow")

// AppendVarInt appends u's Protocol-Buffer-compatible unsigned,
// little-endian base-128 encoding to dst (spec §6).
func AppendVarInt(dst []byte, u uint64) []byte {
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}
	return append(dst, byte(u))
}

// EncodeVarInt returns the standalone encoding of u.
func EncodeVarInt(u uint64) []byte {
	return AppendVarInt(nil, u)
}

// DecodeVarInt reads a varint from the start of buf, returning the
// decoded value and the number of bytes consumed. Fails with
// ErrVarIntTruncated if buf ends before a terminating byte, or
// ErrVarIntOverflow if the encoding would exceed 64 bits (spec §6, §7).
func DecodeVarInt(buf []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, b := range buf {
		if i >= 10 {
			return 0, 0, fmt.Errorf("keyword: %w", ErrVarIntOverflow)
		}
		if shift == 63 && b > 1 {
			return 0, 0, fmt.Errorf("keyword: %w", ErrVarIntOverflow)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("keyword: %w", ErrVarIntTruncated)
}
