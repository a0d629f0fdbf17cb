package keyword

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apple/swift-homomorphic-encryption-sub002/bfv"
	"github.com/apple/swift-homomorphic-encryption-sub002/pir/cuckoo"
	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

func buildTestDatabase(n int) []cuckoo.Entry {
	entries := make([]cuckoo.Entry, n)
	for i := 0; i < n; i++ {
		entries[i] = cuckoo.Entry{
			Keyword: []byte(fmt.Sprintf("keyword-%d", i)),
			Value:   []byte(fmt.Sprintf("value-%d", i)),
		}
	}
	return entries
}

func newTestServerAndClient(t *testing.T) (*rlwe.EncryptionParameters, *rlwe.SecretKey, *rlwe.EvaluationKey, *Server, *Client) {
	params := testParams()
	prng := testPRNG(1)

	kg := rlwe.NewKeyGenerator(params, prng)
	sk := kg.GenerateSecretKey()

	cuckooConfig := cuckoo.Config{
		HashFunctionCount:       2,
		MaxEvictionCount:        50,
		MaxSerializedBucketSize: 12,
		SlotCount:               1,
		BucketCount:             cuckoo.AllowExpansion{ExpansionFactor: 1.25, TargetLoadFactor: 0.5},
	}
	pirConfig := PirConfig{
		DimensionCount:   2,
		UnevenDimensions: false,
		KeyCompression:   rlwe.KeyCompressionNone,
		EntrySize:        7,
	}

	entries := buildTestDatabase(6)
	server, err := NewServer(params, cuckooConfig, pirConfig, entries, testPRNG(2))
	require.NoError(t, err)

	ek, err := kg.GenerateEvaluationKey(sk, server.GaloisElements())
	require.NoError(t, err)

	client := NewClient(params, server.Dimensions(), server.BucketCount(), server.HashFunctionCount())

	return params, sk, ek, server, client
}

// TestKeywordLookupPresent builds a small database and retrieves a
// present keyword's value through the full query/answer/decrypt path
// (spec §8 scenario 7, at reduced scale so the test ring stays tiny).
func TestKeywordLookupPresent(t *testing.T) {
	params, sk, ek, server, client := newTestServerAndClient(t)

	prng := testPRNG(3)
	enc := rlwe.NewEncryptor(params, sk, prng)
	dec := rlwe.NewDecryptor(params, sk)
	ev := bfv.NewEvaluator(params)

	present := []byte("keyword-3")
	indices, err := client.HashIndices(present)
	require.NoError(t, err)

	var responses []*rlwe.Ciphertext
	for _, idx := range indices {
		q, err := client.Query(idx, enc)
		require.NoError(t, err)
		ans, err := server.Answer(q, client.logDegree, ev, ek)
		require.NoError(t, err)
		responses = append(responses, ans)
	}

	value, err := client.Lookup(present, responses, dec)
	require.NoError(t, err)
	require.Equal(t, []byte("value-3"), value)
}

// TestKeywordLookupAbsent checks that a keyword never inserted is
// reported as not found rather than producing a spurious value.
func TestKeywordLookupAbsent(t *testing.T) {
	params, sk, ek, server, client := newTestServerAndClient(t)

	prng := testPRNG(4)
	enc := rlwe.NewEncryptor(params, sk, prng)
	dec := rlwe.NewDecryptor(params, sk)
	ev := bfv.NewEvaluator(params)

	absent := []byte("keyword-absent")
	indices, err := client.HashIndices(absent)
	require.NoError(t, err)

	var responses []*rlwe.Ciphertext
	for _, idx := range indices {
		q, err := client.Query(idx, enc)
		require.NoError(t, err)
		ans, err := server.Answer(q, client.logDegree, ev, ek)
		require.NoError(t, err)
		responses = append(responses, ans)
	}

	_, err = client.Lookup(absent, responses, dec)
	require.ErrorIs(t, err, ErrKeywordNotFound)
}
