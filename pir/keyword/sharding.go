package keyword

import (
	"crypto/sha256"
	"encoding/binary"
)

// ShardingFunction names the interoperable database-partitioning
// functions (spec §4.9, §6).
type ShardingFunction int

const (
	// ShardingSHA256 takes the first 8 bytes of SHA-256(keyword),
	// interpreted little-endian, mod shardCount.
	ShardingSHA256 ShardingFunction = iota
	// ShardingDoubleMod reduces mod otherShardCount first, then mod
	// shardCount, letting a client agree on a coarser, size-stable
	// intermediate partition before the protocol's actual shard count.
	ShardingDoubleMod
)

// keywordHash64 returns the first 8 bytes of SHA-256(keyword) as a
// little-endian uint64 (spec §6), the same primitive the cuckoo package
// uses for its compact keyword identifier.
func keywordHash64(keyword []byte) uint64 {
	digest := sha256.Sum256(keyword)
	return binary.LittleEndian.Uint64(digest[:8])
}

// ShardIndex computes the deterministic shard a keyword belongs to
// (spec §4.9's sharding_function, §6's bit-exact requirement). For
// ShardingDoubleMod, otherShardCount is the protocol-agreed secondary
// modulus applied before the final reduction.
func ShardIndex(keyword []byte, shardCount int, fn ShardingFunction, otherShardCount int) int {
	h := keywordHash64(keyword)
	switch fn {
	case ShardingDoubleMod:
		return int((h % uint64(otherShardCount)) % uint64(shardCount))
	default:
		return int(h % uint64(shardCount))
	}
}
