package rlwe

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/apple/swift-homomorphic-encryption-sub002/ring"
)

// testParams builds a small parameter set: N=16, t=769 (prime, large
// enough to hold byte-sized test values without centered-range overflow),
// q = {1125899906842273, 1125899906842177} (both 50-bit primes ≡ 1 mod 32;
// single-base key switching adds error on the order of q_i*N, so the
// moduli must leave Q/t far above that).
func testParams(t *testing.T) *EncryptionParameters {
	params, err := NewEncryptionParameters(16, 769, []uint64{1125899906842273, 1125899906842177}, StdDev32, SecurityUnchecked)
	require.NoError(t, err)
	return params
}

func encodeCoeff(t *testing.T, params *EncryptionParameters, values []int64) *Plaintext {
	ctx := params.RingQ()
	_ = ctx
	tCtx := ring.NewNonNTTPolyContext(params.N(), params.PlaintextModulus())
	poly := ring.NewPolyRq(tCtx, ring.Coeff)
	row := poly.At(0)
	for i, v := range values {
		row[i] = ring.CenteredToRemainder(v, params.PlaintextModulus())
	}
	return &Plaintext{Value: poly}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	params := testParams(t)
	prng := rand.New(rand.NewSource(1))

	kg := NewKeyGenerator(params, prng)
	sk := kg.GenerateSecretKey()

	enc := NewEncryptor(params, sk, prng)
	dec := NewDecryptor(params, sk)

	values := []int64{1, -1, 0, 5, -5, 300, -300, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	pt := encodeCoeff(t, params, values)

	ct, err := enc.EncryptNew(pt)
	require.NoError(t, err)

	out, err := dec.DecryptNew(ct)
	require.NoError(t, err)

	row := out.Value.At(0)
	for i, v := range values {
		got := ring.RemainderToCentered(row[i], params.PlaintextModulus())
		require.Equal(t, v, got, "coefficient %d", i)
	}
}

// TestCiphertextMaterializeIsStable guards the seeded/full duality
// (spec §9): a seeded ciphertext's first Materialize call regenerates
// c1 from its PRG seed and caches it, so every later call must return
// coefficient-identical polynomials. cmp.Diff reports exactly which
// level and format diverged instead of a bare "not equal".
func TestCiphertextMaterializeIsStable(t *testing.T) {
	params := testParams(t)
	prng := rand.New(rand.NewSource(7))

	kg := NewKeyGenerator(params, prng)
	sk := kg.GenerateSecretKey()
	enc := NewEncryptor(params, sk, prng)

	pt := encodeCoeff(t, params, []int64{2, -3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	ct, err := enc.EncryptNew(pt)
	require.NoError(t, err)
	require.NotNil(t, ct.Seed, "EncryptNew must produce a seeded ciphertext")

	first := ct.Materialize()
	second := ct.Materialize()
	require.Equal(t, len(first), len(second))

	for i := range first {
		if diff := cmp.Diff(first[i].Format(), second[i].Format()); diff != "" {
			t.Errorf("poly %d format diverged across Materialize calls (-first +second):\n%s", i, diff)
		}
		for level := 0; level < first[i].Levels(); level++ {
			if diff := cmp.Diff(first[i].At(level), second[i].At(level)); diff != "" {
				t.Errorf("poly %d level %d coefficients diverged across Materialize calls (-first +second):\n%s", i, level, diff)
			}
		}
	}
}

func TestKeySwitchPreservesPlaintext(t *testing.T) {
	params := testParams(t)
	prng := rand.New(rand.NewSource(2))

	kg := NewKeyGenerator(params, prng)
	sk1 := kg.GenerateSecretKey()
	sk2 := kg.GenerateSecretKey()

	enc := NewEncryptor(params, sk1, prng)
	values := []int64{7, -3, 42, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	pt := encodeCoeff(t, params, values)

	ct, err := enc.EncryptNew(pt)
	require.NoError(t, err)

	ksk := kg.GenerateKeySwitchKey(sk1, sk2)
	polys := ct.Materialize()
	d0, d1, err := applyKeySwitchKey(polys[1], ksk)
	require.NoError(t, err)

	ring.ForwardNTT(polys[0])
	c0Copy := polys[0].CopyNew()
	require.NoError(t, c0Copy.AddAssign(d0))
	newCt := NewCiphertext(params.RingQ(), []*ring.PolyRq{c0Copy, d1})

	dec2 := NewDecryptor(params, sk2)
	out, err := dec2.DecryptNew(newCt)
	require.NoError(t, err)

	row := out.Value.At(0)
	for i, v := range values {
		got := ring.RemainderToCentered(row[i], params.PlaintextModulus())
		require.Equal(t, v, got, "coefficient %d", i)
	}
}

func TestGaloisAutomorphismInvolution(t *testing.T) {
	params := testParams(t)
	prng := rand.New(rand.NewSource(3))

	kg := NewKeyGenerator(params, prng)
	sk := kg.GenerateSecretKey()

	g := ring.GaloisElementForRowSwap(params.RingQ().NthRoot())
	ek, err := kg.GenerateEvaluationKey(sk, []uint64{g})
	require.NoError(t, err)

	enc := NewEncryptor(params, sk, prng)
	values := []int64{1, 2, 3, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	pt := encodeCoeff(t, params, values)
	ct, err := enc.EncryptNew(pt)
	require.NoError(t, err)

	ev := NewEvaluator(params)
	rotated, err := ev.ApplyGaloisNew(ct, g, ek)
	require.NoError(t, err)
	rotatedTwice, err := ev.ApplyGaloisNew(rotated, g, ek)
	require.NoError(t, err)

	dec := NewDecryptor(params, sk)
	out, err := dec.DecryptNew(rotatedTwice)
	require.NoError(t, err)

	row := out.Value.At(0)
	for i, v := range values {
		got := ring.RemainderToCentered(row[i], params.PlaintextModulus())
		require.Equal(t, v, got, "row-swap applied twice should be identity at coefficient %d", i)
	}
}

func TestSecretKeyZeroize(t *testing.T) {
	params := testParams(t)
	prng := rand.New(rand.NewSource(4))
	kg := NewKeyGenerator(params, prng)
	sk := kg.GenerateSecretKey()

	sk.Zeroize()
	for lvl := 0; lvl < sk.Value.Levels(); lvl++ {
		for _, v := range sk.Value.At(lvl) {
			require.Zero(t, v)
		}
	}
}
