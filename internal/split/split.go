// Package split deterministically partitions validated annotation records
// into train/validation/test sets, stratified by document type so every
// partition keeps the input's type proportions. The assignment is a pure
// function of (record ids, ratios, seed); it labels records and never
// rewrites them.
package split

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"

	"shipdocs/internal/schema"
)

// Partition is one of the three output sets.
type Partition string

const (
	Train      Partition = "train"
	Validation Partition = "validation"
	Test       Partition = "test"
)

// Partitions lists the partitions in canonical order.
var Partitions = []Partition{Train, Validation, Test}

// ErrInvalidRatios rejects ratio sets before any assignment is computed.
var ErrInvalidRatios = errors.New("invalid split ratios")

const ratioEpsilon = 1e-3

// Ratios are the target partition proportions; they must sum to 1.
type Ratios struct {
	Train      float64 `json:"train" yaml:"train"`
	Validation float64 `json:"validation" yaml:"validation"`
	Test       float64 `json:"test" yaml:"test"`
}

// DefaultRatios is the conventional 70/15/15 split.
func DefaultRatios() Ratios {
	return Ratios{Train: 0.7, Validation: 0.15, Test: 0.15}
}

// Validate checks non-negativity and that the ratios sum to 1 within
// tolerance.
func (r Ratios) Validate() error {
	if r.Train < 0 || r.Validation < 0 || r.Test < 0 {
		return fmt.Errorf("%w: ratios must be non-negative, got (%v, %v, %v)",
			ErrInvalidRatios, r.Train, r.Validation, r.Test)
	}
	sum := r.Train + r.Validation + r.Test
	if math.Abs(sum-1.0) > ratioEpsilon {
		return fmt.Errorf("%w: ratios must sum to 1.0, got %v", ErrInvalidRatios, sum)
	}
	return nil
}

// Assignment maps each document identifier to its partition.
type Assignment map[string]Partition

// IDs returns the identifiers assigned to a partition, sorted.
func (a Assignment) IDs(p Partition) []string {
	var ids []string
	for id, part := range a {
		if part == p {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Counts tallies assignments per partition.
func (a Assignment) Counts() map[Partition]int {
	counts := make(map[Partition]int, len(Partitions))
	for _, p := range a {
		counts[p]++
	}
	return counts
}

// Split partitions the given per-type identifier groups. Within each type
// the identifiers are sorted, permuted by a seed-derived shuffle, and cut
// at round(n*train) and round(n*(train+validation)). Identical inputs
// always reproduce the identical assignment.
//
// A type with at least 3 records and strictly positive ratios is
// guaranteed a representative in every partition; smaller types keep the
// raw rounded cut, which may leave a partition empty.
func Split(groups map[schema.DocumentType][]string, ratios Ratios, seed int64) (Assignment, error) {
	if err := ratios.Validate(); err != nil {
		return nil, err
	}

	types := make([]schema.DocumentType, 0, len(groups))
	for dt := range groups {
		types = append(types, dt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	assignment := make(Assignment)
	for _, dt := range types {
		ids := make([]string, len(groups[dt]))
		copy(ids, groups[dt])
		sort.Strings(ids)

		// Per-type derived seed keeps each type's permutation independent
		// of the other groups' contents.
		rng := rand.New(rand.NewSource(typeSeed(seed, dt)))
		rng.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})

		sizes := cut(len(ids), ratios)
		offset := 0
		for pi, p := range Partitions {
			for _, id := range ids[offset : offset+sizes[pi]] {
				assignment[id] = p
			}
			offset += sizes[pi]
		}
	}
	return assignment, nil
}

// cut computes the three contiguous slice sizes for n records.
func cut(n int, ratios Ratios) [3]int {
	nTrain := int(math.Round(float64(n) * ratios.Train))
	nTrainVal := int(math.Round(float64(n) * (ratios.Train + ratios.Validation)))
	if nTrainVal > n {
		nTrainVal = n
	}
	if nTrain > nTrainVal {
		nTrain = nTrainVal
	}
	sizes := [3]int{nTrain, nTrainVal - nTrain, n - nTrainVal}

	// Rounding can starve a partition even when the type has enough
	// records; rebalance one from the largest partition so every
	// partition sees the type.
	if n >= 3 && ratios.Train > 0 && ratios.Validation > 0 && ratios.Test > 0 {
		for i := range sizes {
			if sizes[i] > 0 {
				continue
			}
			donor := 0
			for j := 1; j < 3; j++ {
				if sizes[j] > sizes[donor] {
					donor = j
				}
			}
			if sizes[donor] > 1 {
				sizes[donor]--
				sizes[i]++
			}
		}
	}
	return sizes
}

func typeSeed(seed int64, dt schema.DocumentType) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	h.Write([]byte(dt))
	return int64(h.Sum64())
}
