package keyword

import (
	"fmt"

	"github.com/apple/swift-homomorphic-encryption-sub002/pir/cuckoo"
)

// ErrInvalidHashBucketEntryValueSize is returned when a slot's value
// would not fit in the wire format's 16-bit size field (spec §6, §7).
var ErrInvalidHashBucketEntryValueSize = fmt.Errorf("keyword: hash bucket entry value size exceeds 16 bits")

// SerializeBucket encodes a cuckoo bucket's occupied slots as
// varint(keyword_hash) || varint(value_size) || value_bytes, repeated
// per slot (spec §6's HashBucket layout). Empty slots are skipped; the
// reader distinguishes a short bucket from padding by its plaintext
// boundary, not an explicit count, matching the fixed-size-bucket
// encoding the cuckoo layer already guarantees.
func SerializeBucket(bucket []cuckoo.Slot) ([]byte, error) {
	var out []byte
	for _, slot := range bucket {
		if !slot.Occupied {
			continue
		}
		if len(slot.Value) > 0xFFFF {
			return nil, ErrInvalidHashBucketEntryValueSize
		}
		out = AppendVarInt(out, slot.KeywordHash())
		out = AppendVarInt(out, uint64(len(slot.Value)))
		out = append(out, slot.Value...)
	}
	return out, nil
}

// BucketEntry is one decoded HashBucket record: the keyword's compact
// hash identifier and its stored value bytes.
type BucketEntry struct {
	KeywordHash uint64
	Value       []byte
}

// DeserializeBucket decodes a HashBucket-encoded byte string back into
// its entries, failing with ErrVarIntTruncated/ErrVarIntOverflow on a
// malformed buffer (spec §6, §7).
func DeserializeBucket(buf []byte) ([]BucketEntry, error) {
	var entries []BucketEntry
	for len(buf) > 0 {
		hash, n, err := DecodeVarInt(buf)
		if err != nil {
			return nil, err
		}
		buf = buf[n:]

		size, n, err := DecodeVarInt(buf)
		if err != nil {
			return nil, err
		}
		buf = buf[n:]
		if size > 0xFFFF {
			return nil, ErrInvalidHashBucketEntryValueSize
		}
		if uint64(len(buf)) < size {
			return nil, ErrVarIntTruncated
		}
		entries = append(entries, BucketEntry{KeywordHash: hash, Value: buf[:size]})
		buf = buf[size:]
	}
	return entries, nil
}

// EncodeSkipLSBs serializes a per-RNS-channel skipLSBs vector as a
// sequence of varints (spec §4.10, §6).
func EncodeSkipLSBs(skipLSBs []int) []byte {
	var out []byte
	for _, s := range skipLSBs {
		out = AppendVarInt(out, uint64(s))
	}
	return out
}

// DecodeSkipLSBs reads count varints back out of buf.
func DecodeSkipLSBs(buf []byte, count int) ([]int, error) {
	out := make([]int, count)
	for i := 0; i < count; i++ {
		v, n, err := DecodeVarInt(buf)
		if err != nil {
			return nil, err
		}
		out[i] = int(v)
		buf = buf[n:]
	}
	return out, nil
}
