package keyword

import (
	"fmt"

	"github.com/apple/swift-homomorphic-encryption-sub002/bfv"
	"github.com/apple/swift-homomorphic-encryption-sub002/pir/cuckoo"
	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

// ErrKeywordNotFound is returned by Client.Lookup when a response
// decrypts successfully but no candidate bucket holds the keyword.
var ErrKeywordNotFound = fmt.Errorf("keyword: not found")

// Client builds one-hot MulPIR queries against a server of a known shape
// and decodes its responses (spec §4.9's client-side query generation
// and response processing).
type Client struct {
	params    *rlwe.EncryptionParameters
	dims      []int
	bucketCnt int
	h         int
	logDegree int
}

// NewClient builds a client for a server whose cuckoo table has
// bucketCount buckets addressed by h hash functions, factored into dims
// dimensions.
func NewClient(params *rlwe.EncryptionParameters, dims []int, bucketCount int, h int) *Client {
	logDegree := bitsLen(uint64(params.N()) - 1)
	return &Client{params: params, dims: dims, bucketCnt: bucketCount, h: h, logDegree: logDegree}
}

// candidateCoordinate converts a flat bucket index into its (d1, d2)
// position on the server's plaintext grid.
func (c *Client) candidateCoordinate(idx int) (int, int) {
	_, d2 := dims2(c.dims)
	return idx / d2, idx % d2
}

// Query packs one candidate bucket index's one-hot (d1+d2)-length
// indicator vector into a single Coeff-format ciphertext, ready for
// ExpandCiphertexts on the server (spec §4.7/§4.9).
func (c *Client) Query(idx int, enc *rlwe.Encryptor) (*rlwe.Ciphertext, error) {
	d1, d2 := dims2(c.dims)
	i, j := c.candidateCoordinate(idx)

	n := c.params.N()
	total := d1 + d2
	if total > n {
		return nil, fmt.Errorf("keyword: %w: d1+d2=%d exceeds ring degree %d", rlwe.ErrInvalidEncryptionParameters, total, n)
	}

	values := make([]int64, total)
	values[i] = 1
	values[d1+j] = 1

	encoder := bfv.NewEncoder(c.params)
	pt, err := encoder.EncodeCoeff(values)
	if err != nil {
		return nil, err
	}
	return enc.EncryptNew(pt)
}

// HashIndices returns the candidate bucket indices a server would place
// keyword into under this client's table shape.
func (c *Client) HashIndices(keyword []byte) ([]int, error) {
	return cuckoo.HashIndices(keyword, c.bucketCnt, c.h)
}

// Decrypt recovers the serialized bucket bytes from a server's response
// ciphertext.
func (c *Client) Decrypt(ct *rlwe.Ciphertext, dec *rlwe.Decryptor) ([]byte, error) {
	pt, err := dec.DecryptNew(ct)
	if err != nil {
		return nil, err
	}
	encoder := bfv.NewEncoder(c.params)
	values := encoder.DecodeCoeff(pt)
	out := make([]byte, len(values))
	for i, v := range values {
		out[i] = byte(v)
	}
	return out, nil
}

// Lookup decrypts a set of candidate responses (one per hash-function
// candidate bucket, in the order HashIndices returned them) and searches
// each for keyword, returning its value on the first match or
// ErrKeywordNotFound if none of the candidates hold it (spec §4.9's
// response parsing: "search the decrypted bucket for the keyword").
func (c *Client) Lookup(keyword []byte, responses []*rlwe.Ciphertext, dec *rlwe.Decryptor) ([]byte, error) {
	target := keywordHash64(keyword)
	for _, ct := range responses {
		raw, err := c.Decrypt(ct, dec)
		if err != nil {
			return nil, err
		}
		entries, err := DeserializeBucket(raw)
		if err != nil {
			continue // a garbage-padded tail plaintext decodes to junk; skip it
		}
		for _, e := range entries {
			if e.KeywordHash == target {
				return e.Value, nil
			}
		}
	}
	return nil, ErrKeywordNotFound
}
