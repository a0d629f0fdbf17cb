package keyword

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShardIndexDeterministic(t *testing.T) {
	keyword := []byte{0, 0, 0, 0}
	a := ShardIndex(keyword, 41, ShardingSHA256, 0)
	b := ShardIndex(keyword, 41, ShardingSHA256, 0)
	require.Equal(t, a, b)
	require.GreaterOrEqual(t, a, 0)
	require.Less(t, a, 41)
}

func TestShardIndexDoubleModDeterministic(t *testing.T) {
	keyword := []byte{1, 2, 3}
	a := ShardIndex(keyword, 1001, ShardingDoubleMod, 2000)
	b := ShardIndex(keyword, 1001, ShardingDoubleMod, 2000)
	require.Equal(t, a, b)
	require.GreaterOrEqual(t, a, 0)
	require.Less(t, a, 1001)
}

func TestShardIndexDependsOnlyOnKeywordAndCounts(t *testing.T) {
	k1 := []byte("alpha")
	k2 := []byte("alpha")
	require.Equal(t, ShardIndex(k1, 97, ShardingSHA256, 0), ShardIndex(k2, 97, ShardingSHA256, 0))
}
