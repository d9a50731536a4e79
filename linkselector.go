package harvest

// ItemLinkExtractor finds publication (item) URLs on a listing page.
type ItemLinkExtractor interface {
	// ExtractItemLinks parses HTML and returns the item URLs it links to,
	// resolved against baseURL, in first-seen order without duplicates.
	ExtractItemLinks(html string, baseURL string) ([]string, error)
}

// PageNavigator locates the next listing page.
type PageNavigator interface {
	// NextPage returns the URL of the listing page following currentURL,
	// which is listing page number page. The bool is false when there is
	// no next page.
	NextPage(html string, currentURL string, page int) (string, bool)
}
