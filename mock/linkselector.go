package mock

import "github.com/fwojciec/harvest"

var (
	_ harvest.ItemLinkExtractor = (*ItemLinkExtractor)(nil)
	_ harvest.PageNavigator     = (*PageNavigator)(nil)
)

// ItemLinkExtractor is a mock implementation of harvest.ItemLinkExtractor.
type ItemLinkExtractor struct {
	ExtractItemLinksFn func(html, baseURL string) ([]string, error)
}

func (e *ItemLinkExtractor) ExtractItemLinks(html, baseURL string) ([]string, error) {
	return e.ExtractItemLinksFn(html, baseURL)
}

// PageNavigator is a mock implementation of harvest.PageNavigator.
type PageNavigator struct {
	NextPageFn func(html, currentURL string, page int) (string, bool)
}

func (n *PageNavigator) NextPage(html, currentURL string, page int) (string, bool) {
	return n.NextPageFn(html, currentURL, page)
}
