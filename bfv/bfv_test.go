package bfv

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

func testParams(t *testing.T) *rlwe.EncryptionParameters {
	params, err := rlwe.NewEncryptionParameters(16, 769, []uint64{1153, 1217}, rlwe.StdDev32, rlwe.SecurityUnchecked)
	require.NoError(t, err)
	return params
}

func TestEncodeDecodeCoeffRoundTrip(t *testing.T) {
	params := testParams(t)
	enc := NewEncoder(params)

	values := []int64{1, -1, 0, 300, -300, 384, -384}
	pt, err := enc.EncodeCoeff(values)
	require.NoError(t, err)

	out := enc.DecodeCoeff(pt)
	for i, v := range values {
		require.Equal(t, v, out[i])
	}
}

func TestEncodeCoeffOutOfRange(t *testing.T) {
	params := testParams(t)
	enc := NewEncoder(params)

	_, err := enc.EncodeCoeff([]int64{1000})
	require.ErrorIs(t, err, rlwe.ErrEncodingOutOfBounds)
}

func TestEncodeDecodeSIMDRoundTrip(t *testing.T) {
	params := testParams(t)
	require.True(t, params.SupportsSIMDEncoding())
	enc := NewEncoder(params)

	values := make([]int64, params.N())
	for i := range values {
		values[i] = int64(i) - 8
	}
	pt, err := enc.EncodeSIMD(values)
	require.NoError(t, err)

	out, err := enc.DecodeSIMD(pt)
	require.NoError(t, err)
	require.Equal(t, values, out)
}

func TestEncryptDecryptWithAddPlain(t *testing.T) {
	params := testParams(t)
	prng := rand.New(rand.NewSource(11))

	kg := rlwe.NewKeyGenerator(params, prng)
	sk := kg.GenerateSecretKey()
	enc := rlwe.NewEncryptor(params, sk, prng)
	dec := rlwe.NewDecryptor(params, sk)
	encoder := NewEncoder(params)
	ev := rlwe.NewEvaluator(params)

	a := []int64{3, -2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	b := []int64{5, 7, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	ptA, err := encoder.EncodeCoeff(a)
	require.NoError(t, err)
	ptB, err := encoder.EncodeCoeff(b)
	require.NoError(t, err)

	ctA, err := enc.EncryptNew(ptA)
	require.NoError(t, err)

	sum, err := ev.AddPlainNew(ctA, ptB, enc)
	require.NoError(t, err)

	out, err := dec.DecryptNew(sum)
	require.NoError(t, err)
	decoded := encoder.DecodeCoeff(out)
	require.Equal(t, int64(8), decoded[0])
	require.Equal(t, int64(5), decoded[1])
}

func TestCiphertextMultiplicationAndRelinearize(t *testing.T) {
	params := testParams(t)
	prng := rand.New(rand.NewSource(12))

	kg := rlwe.NewKeyGenerator(params, prng)
	sk := kg.GenerateSecretKey()
	enc := rlwe.NewEncryptor(params, sk, prng)
	dec := rlwe.NewDecryptor(params, sk)
	encoder := NewEncoder(params)
	ev := NewEvaluator(params)

	relinKey := kg.GenerateRelinearizationKey(sk)
	ek := &rlwe.EvaluationKey{RelinKey: relinKey, GaloisKeys: map[uint64]*rlwe.GaloisKey{}}

	a := []int64{3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	b := []int64{4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	ptA, err := encoder.EncodeCoeff(a)
	require.NoError(t, err)
	ptB, err := encoder.EncodeCoeff(b)
	require.NoError(t, err)

	ctA, err := enc.EncryptNew(ptA)
	require.NoError(t, err)
	ctB, err := enc.EncryptNew(ptB)
	require.NoError(t, err)

	product, err := ev.MulRelinNew(ctA, ctB, ek)
	require.NoError(t, err)
	require.Equal(t, 1, product.Degree())

	out, err := dec.DecryptNew(product)
	require.NoError(t, err)
	decoded := encoder.DecodeCoeff(out)
	require.Equal(t, int64(12), decoded[0])
}

func TestNoiseBudgetDecreasesAfterMultiplication(t *testing.T) {
	params := testParams(t)
	prng := rand.New(rand.NewSource(13))

	kg := rlwe.NewKeyGenerator(params, prng)
	sk := kg.GenerateSecretKey()
	enc := rlwe.NewEncryptor(params, sk, prng)
	encoder := NewEncoder(params)
	ev := NewEvaluator(params)
	relinKey := kg.GenerateRelinearizationKey(sk)
	ek := &rlwe.EvaluationKey{RelinKey: relinKey, GaloisKeys: map[uint64]*rlwe.GaloisKey{}}
	ne := NewNoiseEstimator(params)

	pt, err := encoder.EncodeCoeff([]int64{2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	ct, err := enc.EncryptNew(pt)
	require.NoError(t, err)

	budgetFresh, err := ne.Budget(ct, sk)
	require.NoError(t, err)

	product, err := ev.MulRelinNew(ct, ct, ek)
	require.NoError(t, err)
	budgetAfterMul, err := ne.Budget(product, sk)
	require.NoError(t, err)

	require.Less(t, budgetAfterMul, budgetFresh)
}
