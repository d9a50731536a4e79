package harvest

// NoTitle is the title recorded when a page has no top-level heading.
const NoTitle = "No Title Found"

// ExtractResult holds the text extracted from a publication page.
type ExtractResult struct {
	// Title is the whitespace-collapsed page heading.
	Title string

	// Content is the normalized body text on a single line.
	Content string
}

// ContentExtractor derives the title and body text of a publication page.
type ContentExtractor interface {
	// Extract processes raw HTML. Implementations degrade to an empty
	// result rather than failing on unexpected document shapes; callers
	// treat a returned error the same as an empty result.
	Extract(html string) (*ExtractResult, error)
}
