package mock

import "github.com/fwojciec/harvest"

var _ harvest.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of harvest.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*harvest.ExtractResult, error)
}

func (e *ContentExtractor) Extract(html string) (*harvest.ExtractResult, error) {
	return e.ExtractFn(html)
}
