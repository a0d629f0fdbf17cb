package ring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestPolyRqCopyNewMatchesSource guards CopyNew's deep copy: the two
// polynomials must carry identical per-level coefficient data even
// though they don't share backing storage. cmp.Diff pinpoints which
// level diverges instead of just reporting "not equal".
func TestPolyRqCopyNewMatchesSource(t *testing.T) {
	ctx, err := NewPolyContext(8, []uint64{97, 113})
	require.NoError(t, err)

	p := NewPolyRq(ctx, Coeff)
	for i := 0; i < p.Levels(); i++ {
		row := p.At(i)
		for j := range row {
			row[j] = uint64(i*100 + j)
		}
	}

	q := p.CopyNew()
	require.True(t, p.Equal(q))

	for i := 0; i < p.Levels(); i++ {
		if diff := cmp.Diff(p.At(i), q.At(i)); diff != "" {
			t.Errorf("level %d coefficients diverged after CopyNew (-source +copy):\n%s", i, diff)
		}
	}

	q.At(0)[0]++
	require.False(t, p.Equal(q), "mutating the copy must not affect the source")
}
