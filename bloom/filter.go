// Package bloom provides a probabilistic membership pre-filter for the
// crawler's seen-URL set.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultCapacity covers a full archive crawl (53 listing pages of about
// twenty items each) with headroom.
const DefaultCapacity = 4096

// DefaultFalsePositiveRate is the target false positive rate.
const DefaultFalsePositiveRate = 0.001

// Filter answers "definitely not seen" without touching the exact set.
// A positive answer must be confirmed by the caller.
type Filter struct {
	f     *bloom.BloomFilter
	added int
}

// NewFilter creates a Filter sized for n URLs at the given false positive
// rate. Zero values select the defaults.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = DefaultCapacity
	}
	if fpRate <= 0 {
		fpRate = DefaultFalsePositiveRate
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records url.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
	f.added++
}

// MayContain reports whether url might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) MayContain(url string) bool {
	return f.f.TestString(url)
}

// Added returns the number of Add calls, duplicates included.
func (f *Filter) Added() int {
	return f.added
}

// EstimatedCount returns the approximate number of distinct URLs added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
