// Package cuckoo implements the bounded-eviction cuckoo hash table that
// maps keywords to bucket positions ahead of MulPIR response assembly.
package cuckoo

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// HashIndices computes the H candidate bucket positions for keyword over
// a table of bucketCount buckets (spec §4.8's hash_indices, a wire-level
// interoperability requirement): SHA-256(keyword) is split into 8-byte
// chunks, one per sub-table. The bucket space is partitioned into H
// contiguous stripes of size bucketCount/H, with any remainder from an
// uneven division folded into the trailing stripes; chunk i is reduced
// into stripe i's width, and the H results are returned with stripe H-1
// first, down to stripe 0 last, so the results are distinct by
// construction. This exact derivation and ordering is required for
// interoperability: a client and server that disagree on it will
// address different buckets for the same keyword.
func HashIndices(keyword []byte, bucketCount int, h int) ([]int, error) {
	if h < 1 {
		return nil, fmt.Errorf("cuckoo: hashFunctionCount must be positive, got %d", h)
	}
	if bucketCount <= 0 {
		return nil, fmt.Errorf("cuckoo: bucketCount must be positive, got %d", bucketCount)
	}
	subTableSize := bucketCount / h
	if subTableSize == 0 {
		return nil, fmt.Errorf("cuckoo: bucketCount %d too small for %d hash functions", bucketCount, h)
	}

	widths := stripeWidths(bucketCount, h)
	chunks := deriveChunks(keyword, h)

	raw := make([]int, h)
	offset := 0
	for i := 0; i < h; i++ {
		raw[i] = offset + int(chunks[i]%uint64(widths[i]))
		offset += widths[i]
	}

	indices := make([]int, h)
	for i := 0; i < h; i++ {
		indices[i] = raw[h-1-i]
	}
	return indices, nil
}

// stripeWidths splits bucketCount into h contiguous stripe widths,
// folding the remainder of an uneven division into the trailing
// stripes so every width differs by at most one bucket.
func stripeWidths(bucketCount, h int) []int {
	base := bucketCount / h
	remainder := bucketCount - base*h
	widths := make([]int, h)
	for i := range widths {
		widths[i] = base
	}
	for i := h - remainder; i < h; i++ {
		widths[i]++
	}
	return widths
}

// deriveChunks returns h uint64 values read big-endian from
// SHA-256(keyword), extending past the digest's 4 native 8-byte windows
// by rehashing keyword with an appended counter when h exceeds 4.
func deriveChunks(keyword []byte, h int) []uint64 {
	digest := sha256.Sum256(keyword)
	chunks := make([]uint64, h)
	for i := 0; i < h && i < 4; i++ {
		chunks[i] = binary.BigEndian.Uint64(digest[i*8 : i*8+8])
	}
	for i := 4; i < h; i++ {
		extended := sha256.Sum256(append(append([]byte{}, keyword...), byte(i)))
		chunks[i] = binary.BigEndian.Uint64(extended[:8])
	}
	return chunks
}
