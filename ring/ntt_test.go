package ring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// schoolbookNegacyclicMultiply computes a*b in Z_q[X]/(X^n+1) directly,
// independent of any NTT machinery, as a reference for checking that
// ForwardNTT/InverseNTT implement the same ring multiplication.
func schoolbookNegacyclicMultiply(a, b []uint64, q uint64) []uint64 {
	n := len(a)
	acc := make([]int64, n)
	for i, ai := range a {
		for j, bj := range b {
			prod := int64((ai * bj) % q)
			k := i + j
			if k >= n {
				k -= n
				prod = -prod
			}
			acc[k] += prod
		}
	}
	out := make([]uint64, n)
	for i, v := range acc {
		v %= int64(q)
		if v < 0 {
			v += int64(q)
		}
		out[i] = uint64(v)
	}
	return out
}

func TestNTTInvolution(t *testing.T) {
	ctx, err := NewPolyContext(8, []uint64{97})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		p := NewPolyRq(ctx, Coeff)
		row := p.At(0)
		want := make([]uint64, 8)
		for i := range row {
			v := uint64(rng.Intn(97))
			row[i] = v
			want[i] = v
		}
		ForwardNTT(p)
		InverseNTT(p)
		require.Equal(t, want, p.At(0))
	}
}

func TestNTTMultiplicationMatchesSchoolbook(t *testing.T) {
	const q = 97
	ctx, err := NewPolyContext(8, []uint64{q})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		a := make([]uint64, 8)
		b := make([]uint64, 8)
		for i := range a {
			a[i] = uint64(rng.Intn(q))
			b[i] = uint64(rng.Intn(q))
		}

		want := schoolbookNegacyclicMultiply(a, b, q)

		pa := NewPolyRq(ctx, Coeff)
		pb := NewPolyRq(ctx, Coeff)
		copy(pa.At(0), a)
		copy(pb.At(0), b)

		ForwardNTT(pa)
		ForwardNTT(pb)
		require.NoError(t, pa.MulAssign(pb))
		InverseNTT(pa)

		require.Equal(t, want, pa.At(0))
	}
}
