package keyword

import (
	"fmt"
	"math"

	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

// PirConfig fixes the shape of a MulPIR instance (spec §6's PIR option
// group).
type PirConfig struct {
	DimensionCount   int // 1 or 2
	BatchSize        int
	UnevenDimensions bool
	KeyCompression   rlwe.KeyCompressionStrategy
	EntrySize        int // bytes per database value
}

// IndexPirParameter is the dimension factoring and evaluation-key
// requirement derived from a PirConfig and a fixed entry count (spec
// §4.9's generate_parameter).
type IndexPirParameter struct {
	Dimensions          []int
	EntriesPerPlaintext int
	EffectiveEntryCount int
	GaloisElements      []uint64
}

// GenerateParameter computes an IndexPirParameter for entryCount rows
// under config and params (spec §4.9).
func GenerateParameter(config PirConfig, params *rlwe.EncryptionParameters, entryCount int) (*IndexPirParameter, error) {
	if config.DimensionCount != 1 && config.DimensionCount != 2 {
		return nil, fmt.Errorf("keyword: %w: dimensionCount must be 1 or 2", rlwe.ErrInvalidEncryptionParameters)
	}

	entriesPerPlaintext := 1
	if config.EntrySize > 0 {
		bitsPerPlaintext := bitsLen(params.PlaintextModulus()-1) * params.N()
		bytesPerPlaintext := bitsPerPlaintext / 8
		entriesPerPlaintext = bytesPerPlaintext / config.EntrySize
		if entriesPerPlaintext < 1 {
			entriesPerPlaintext = 1
		}
	}

	effectiveCount := ceilDiv(entryCount, entriesPerPlaintext)
	dims := FactorDimensions(config, effectiveCount)

	logDegree := bitsLen(uint64(params.N()) - 1)
	nthRoot := params.RingQ().NthRoot()
	galoisElements := rlwe.ExpansionGaloisElements(nthRoot, logDegree)
	galoisElements = append(galoisElements, rlwe.RequiredGaloisElements(nthRoot, logDegree, config.KeyCompression)...)

	return &IndexPirParameter{
		Dimensions:          dims,
		EntriesPerPlaintext: entriesPerPlaintext,
		EffectiveEntryCount: effectiveCount,
		GaloisElements:      galoisElements,
	}, nil
}

// FactorDimensions applies the §4.9 dimension-factoring formulas
// directly to itemCount (one grid plaintext per item, no further
// per-plaintext packing): k=1 yields a single dimension of itemCount;
// k=2 with UnevenDimensions picks d1 as the smallest power of two not
// below sqrt(2*itemCount/batchSize) and d2 = ceil(itemCount/d1); k=2 even
// splits itemCount as evenly as possible.
func FactorDimensions(config PirConfig, itemCount int) []int {
	if config.DimensionCount == 1 {
		return []int{itemCount}
	}
	var d1, d2 int
	if config.UnevenDimensions {
		batch := config.BatchSize
		if batch < 1 {
			batch = 1
		}
		target := math.Sqrt(2 * float64(itemCount) / float64(batch))
		d1 = nextPowerOfTwo(int(math.Ceil(target)))
		if d1 < 1 {
			d1 = 1
		}
		d2 = ceilDiv(itemCount, d1)
	} else {
		side := int(math.Ceil(math.Sqrt(float64(itemCount))))
		d1, d2 = side, side
	}
	return []int{d1, d2}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func bitsLen(x uint64) int {
	n := 0
	for x > 0 {
		n++
		x >>= 1
	}
	return n
}

func nextPowerOfTwo(x int) int {
	if x <= 1 {
		return 1
	}
	p := 1
	for p < x {
		p <<= 1
	}
	return p
}
