package keyword

import (
	"fmt"
	"math/rand"

	"github.com/apple/swift-homomorphic-encryption-sub002/bfv"
	"github.com/apple/swift-homomorphic-encryption-sub002/pir/cuckoo"
	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

// Server holds the processed database a MulPIR query is answered
// against (spec §4.9's server-side processing).
type Server struct {
	params    *rlwe.EncryptionParameters
	pirConfig PirConfig
	pirParams *IndexPirParameter
	table     *cuckoo.Table
	grid      [][]*rlwe.Plaintext // [d1][d2], nil entries encode the zero plaintext
}

// NewServer builds a cuckoo table from entries and packs its buckets
// onto the dimension-factored plaintext grid (spec §4.9 steps 1-2). Each
// grid plaintext is stored in Coeff form; MulPlainNew lifts it into Eval
// form against the ciphertext modulus lazily at answer time (spec §4.9
// step 3).
func NewServer(params *rlwe.EncryptionParameters, cuckooConfig cuckoo.Config, pirConfig PirConfig, entries []cuckoo.Entry, rng *rand.Rand) (*Server, error) {
	table, err := cuckoo.Build(entries, cuckooConfig, rng)
	if err != nil {
		return nil, err
	}

	maxBucketBytes := cuckooConfig.MaxSerializedBucketSize
	logDegree := bitsLen(uint64(params.N()) - 1)
	nthRoot := params.RingQ().NthRoot()
	galoisElements := rlwe.ExpansionGaloisElements(nthRoot, logDegree)
	galoisElements = append(galoisElements, rlwe.RequiredGaloisElements(nthRoot, logDegree, pirConfig.KeyCompression)...)
	pirParams := &IndexPirParameter{
		Dimensions:          FactorDimensions(pirConfig, table.BucketCount),
		EntriesPerPlaintext: 1,
		EffectiveEntryCount: table.BucketCount,
		GaloisElements:      galoisElements,
	}

	d1, d2 := dims2(pirParams.Dimensions)
	grid := make([][]*rlwe.Plaintext, d1)
	for i := range grid {
		grid[i] = make([]*rlwe.Plaintext, d2)
	}

	encoder := bfv.NewEncoder(params)
	for idx := 0; idx < table.BucketCount; idx++ {
		i, j := idx/d2, idx%d2
		if i >= d1 {
			continue
		}
		raw, err := SerializeBucket(table.Buckets[idx])
		if err != nil {
			return nil, err
		}
		if maxBucketBytes > 0 && len(raw) > maxBucketBytes {
			return nil, fmt.Errorf("keyword: %w: bucket %d serializes to %d bytes, exceeds %d", rlwe.ErrInvalidEncryptionParameters, idx, len(raw), maxBucketBytes)
		}

		values := make([]int64, len(raw))
		for k, b := range raw {
			values[k] = int64(b)
		}
		pt, err := encoder.EncodeCoeff(values)
		if err != nil {
			return nil, err
		}
		grid[i][j] = pt
	}

	zero, err := encoder.EncodeCoeff(nil)
	if err != nil {
		return nil, err
	}
	for i := range grid {
		for j := range grid[i] {
			if grid[i][j] == nil {
				grid[i][j] = zero
			}
		}
	}

	return &Server{params: params, pirConfig: pirConfig, pirParams: pirParams, table: table, grid: grid}, nil
}

// Dimensions returns the server's (d1, d2) factoring (a single-element
// slice for a one-dimensional instance).
func (s *Server) Dimensions() []int { return s.pirParams.Dimensions }

// BucketCount returns the cuckoo table's bucket count.
func (s *Server) BucketCount() int { return s.table.BucketCount }

// HashFunctionCount returns the cuckoo table's H.
func (s *Server) HashFunctionCount() int { return s.table.Config.HashFunctionCount }

// GaloisElements returns the set of Galois elements an evaluation key
// must provide to answer queries against this server.
func (s *Server) GaloisElements() []uint64 { return s.pirParams.GaloisElements }

// HashIndicesFor returns the candidate bucket indices for keyword under
// the server's table shape, for client-side query construction.
func (s *Server) HashIndicesFor(keyword []byte) ([]int, error) {
	return cuckoo.HashIndices(keyword, s.table.BucketCount, s.table.Config.HashFunctionCount)
}

// Answer computes the homomorphic inner-product response for a single
// bucket coordinate's one-hot query (spec §4.9's response assembly): one
// dimension-1 reduction producing d2 ciphertexts, one dimension-2
// reduction producing the final ciphertext.
func (s *Server) Answer(queryCt *rlwe.Ciphertext, logDegree int, ev *bfv.Evaluator, ek *rlwe.EvaluationKey) (*rlwe.Ciphertext, error) {
	d1, d2 := dims2(s.pirParams.Dimensions)
	indicators, err := ExpandCiphertexts(queryCt, logDegree, d1+d2, ev.Evaluator, ek)
	if err != nil {
		return nil, err
	}
	if len(indicators) < d1+d2 {
		return nil, fmt.Errorf("keyword: expansion produced %d ciphertexts, need %d", len(indicators), d1+d2)
	}
	dim1 := indicators[:d1]
	dim2 := indicators[d1 : d1+d2]

	columns := make([]*rlwe.Ciphertext, d2)
	for j := 0; j < d2; j++ {
		var acc *rlwe.Ciphertext
		for i := 0; i < d1; i++ {
			term, err := ev.MulPlainNew(dim1[i], s.grid[i][j])
			if err != nil {
				return nil, err
			}
			if acc == nil {
				acc = term
				continue
			}
			acc, err = ev.AddNew(acc, term)
			if err != nil {
				return nil, err
			}
		}
		columns[j] = acc
	}

	var result *rlwe.Ciphertext
	for j := 0; j < d2; j++ {
		term, err := ev.MulRelinNew(columns[j], dim2[j], ek)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = term
			continue
		}
		result, err = ev.AddNew(result, term)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func dims2(dims []int) (int, int) {
	if len(dims) == 1 {
		return dims[0], 1
	}
	return dims[0], dims[1]
}
