package crawl

import "github.com/fwojciec/harvest/bloom"

// SeenSet is the insertion-ordered set of item URLs discovered so far.
// A Bloom filter answers most negative lookups before the exact set is
// consulted. It is not safe for concurrent use.
type SeenSet struct {
	order  []string
	exact  map[string]struct{}
	filter *bloom.Filter
}

// NewSeenSet creates a SeenSet seeded with urls. Duplicates in urls are
// kept once, at their first position.
func NewSeenSet(urls ...string) *SeenSet {
	s := &SeenSet{
		exact:  make(map[string]struct{}, len(urls)),
		filter: bloom.NewFilter(uint(max(len(urls)*2, bloom.DefaultCapacity)), bloom.DefaultFalsePositiveRate),
	}
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Contains reports whether url has been added.
func (s *SeenSet) Contains(url string) bool {
	if !s.filter.MayContain(url) {
		return false
	}
	_, ok := s.exact[url]
	return ok
}

// Add records url. It returns false if url was already present.
func (s *SeenSet) Add(url string) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.Add(url)
	s.exact[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

// Len returns the number of distinct URLs.
func (s *SeenSet) Len() int {
	return len(s.order)
}

// URLs returns a copy of the URLs in insertion order.
func (s *SeenSet) URLs() []string {
	return append([]string(nil), s.order...)
}
