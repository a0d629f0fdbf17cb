package cuckoo

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand"

	"golang.org/x/exp/slices"
)

// BucketCountPolicy decides how many buckets a table starts with and
// whether it may grow during a failed build (spec §4.8).
type BucketCountPolicy interface {
	initialCount(entryCount int) int
	expand(current int) (int, bool)
}

// AllowExpansion grows the table by ExpansionFactor whenever the
// eviction chain exceeds MaxEvictionCount, targeting TargetLoadFactor
// entries per bucket on the initial sizing.
type AllowExpansion struct {
	ExpansionFactor  float64
	TargetLoadFactor float64
}

func (p AllowExpansion) initialCount(entryCount int) int {
	load := p.TargetLoadFactor
	if load <= 0 {
		load = 0.9
	}
	n := int(float64(entryCount) / load)
	if n < 1 {
		n = 1
	}
	return n
}

func (p AllowExpansion) expand(current int) (int, bool) {
	factor := p.ExpansionFactor
	if factor <= 1 {
		factor = 1.25
	}
	next := int(float64(current) * factor)
	if next <= current {
		next = current + 1
	}
	return next, true
}

// FixedSize never grows; a build that cannot complete within Count
// buckets fails with ErrExpansionExceeded.
type FixedSize struct {
	Count int
}

func (p FixedSize) initialCount(int) int           { return p.Count }
func (p FixedSize) expand(current int) (int, bool) { return current, false }

// Config fixes a cuckoo table's shape (spec §4.8).
type Config struct {
	HashFunctionCount       int
	MaxEvictionCount        int
	MaxSerializedBucketSize int
	SlotCount               int
	BucketCount             BucketCountPolicy
}

// Freeze returns a copy of config with BucketCount replaced by the
// table's actual bucket count, so a client can rebuild the identical
// table shape deterministically (spec §4.8's freezing).
func (c Config) Freeze(bucketCount int) Config {
	frozen := c
	frozen.BucketCount = FixedSize{Count: bucketCount}
	return frozen
}

// Entry is a keyword/value pair to place into the table.
type Entry struct {
	Keyword []byte
	Value   []byte
}

// Slot holds one placed entry, or is empty (Occupied == false). Keyword
// is retained (not just its hash) so the build algorithm can re-place an
// evicted entry; serialization stores only KeywordHash (spec §6).
type Slot struct {
	Occupied bool
	Keyword  []byte
	Value    []byte
}

// KeywordHash returns the first 8 bytes of SHA-256(keyword) as a
// little-endian uint64, the canonical compact identifier stored in the
// wire format instead of the full keyword (spec §6's HashBucket layout).
func (s Slot) KeywordHash() uint64 {
	return keywordHash(s.Keyword)
}

// Table is a built cuckoo hash table over H sub-tables addressed as one
// contiguous bucket array (spec §4.8).
type Table struct {
	Buckets     [][]Slot
	Config      Config
	BucketCount int
}

// ErrExpansionExceeded is returned when a FixedSize table cannot hold
// the input (spec §7).
var ErrExpansionExceeded = fmt.Errorf("cuckoo: table cannot hold input without expansion")

func keywordHash(keyword []byte) uint64 {
	digest := sha256.Sum256(keyword)
	return binary.LittleEndian.Uint64(digest[:8])
}

// Build places every entry into a freshly sized table, expanding and
// restarting per the configured BucketCountPolicy whenever a placement's
// eviction chain runs past MaxEvictionCount (spec §4.8's build
// algorithm). rng drives eviction victim selection; callers wanting
// reproducible tables should seed it deterministically.
func Build(entries []Entry, config Config, rng *rand.Rand) (*Table, error) {
	bucketCount := config.BucketCount.initialCount(len(entries))
	for {
		t := newTable(bucketCount, config)
		if t.tryBuild(entries, rng) {
			return t, nil
		}
		next, ok := config.BucketCount.expand(bucketCount)
		if !ok {
			return nil, ErrExpansionExceeded
		}
		bucketCount = next
	}
}

func newTable(bucketCount int, config Config) *Table {
	t := &Table{Buckets: make([][]Slot, bucketCount), Config: config, BucketCount: bucketCount}
	for i := range t.Buckets {
		t.Buckets[i] = make([]Slot, config.SlotCount)
	}
	return t
}

// tryBuild attempts to place every entry, returning false (table
// unchanged in spirit, discarded by the caller) on eviction overflow.
func (t *Table) tryBuild(entries []Entry, rng *rand.Rand) bool {
	for _, e := range entries {
		if !t.place(e, rng) {
			return false
		}
	}
	return true
}

func (t *Table) place(e Entry, rng *rand.Rand) bool {
	cur := e
	for attempt := 0; attempt <= t.Config.MaxEvictionCount; attempt++ {
		indices, err := HashIndices(cur.Keyword, t.BucketCount, t.Config.HashFunctionCount)
		if err != nil {
			return false
		}
		// Scan candidates in ascending bucket order so placement doesn't
		// depend on HashIndices's own (reversed) output ordering.
		scanOrder := append([]int(nil), indices...)
		slices.Sort(scanOrder)
		for _, idx := range scanOrder {
			for s := range t.Buckets[idx] {
				if !t.Buckets[idx][s].Occupied {
					t.Buckets[idx][s] = Slot{Occupied: true, Keyword: cur.Keyword, Value: cur.Value}
					return true
				}
			}
		}
		// Every candidate bucket is full: evict a random occupant from a
		// random candidate bucket, installing cur there, and continue
		// trying to re-place the evicted entry.
		idx := indices[rng.Intn(len(indices))]
		slotIdx := rng.Intn(len(t.Buckets[idx]))
		evicted := t.Buckets[idx][slotIdx]
		t.Buckets[idx][slotIdx] = Slot{Occupied: true, Keyword: cur.Keyword, Value: cur.Value}
		cur = Entry{Keyword: evicted.Keyword, Value: evicted.Value}
	}
	return false
}

// Find returns the value stored for keyword, or (nil, false) if absent
// (spec §8's cuckoo retrieval property).
func (t *Table) Find(keyword []byte) ([]byte, bool) {
	indices, err := HashIndices(keyword, t.BucketCount, t.Config.HashFunctionCount)
	if err != nil {
		return nil, false
	}
	for _, idx := range indices {
		for _, slot := range t.Buckets[idx] {
			if slot.Occupied && string(slot.Keyword) == string(keyword) {
				return slot.Value, true
			}
		}
	}
	return nil, false
}
