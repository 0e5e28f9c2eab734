// Package bloom provides an approximate seen-set using Bloom filters.
package bloom

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a Bloom filter keyed by 64-bit fingerprints.
// False positives are possible; false negatives are not.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// TestAndAdd reports whether the fingerprint might already be in the
// filter and adds it.
func (f *Filter) TestAndAdd(key uint64) bool {
	return f.f.TestAndAdd(encode(key))
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

func encode(key uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, key)
}
