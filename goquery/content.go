package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// Ensure ContentExtractor implements harvest.ContentExtractor at compile time.
var _ harvest.ContentExtractor = (*ContentExtractor)(nil)

// ContainerStrategy locates the element holding a publication's body.
// Find returns an empty selection when the strategy does not apply.
type ContainerStrategy struct {
	Name string
	Find func(doc *goquery.Document) *goquery.Selection
}

// firstMatch builds a Find function returning the first element matching selector.
func firstMatch(selector string) func(doc *goquery.Document) *goquery.Selection {
	return func(doc *goquery.Document) *goquery.Selection {
		return doc.Find(selector).First()
	}
}

// DefaultContainerStrategies returns the container strategies in priority
// order: an article element, a div marked as primary content, and a div
// marked as post content.
func DefaultContainerStrategies() []ContainerStrategy {
	return []ContainerStrategy{
		{Name: "article", Find: firstMatch("article")},
		{Name: "content", Find: firstMatch("div.content")},
		{Name: "post-content", Find: firstMatch("div.post-content")},
	}
}

const (
	// bodyElements are collected from inside a content container.
	bodyElements = "p, h2, h3, h4, ul, ol"

	// DefaultMinParagraphLength is the length a paragraph must exceed to be
	// used when no content container is found.
	DefaultMinParagraphLength = 50
)

// skippedClassTerms exclude an element inside the container when found in
// its class attribute.
var skippedClassTerms = []string{"navigation", "meta", "author", "date"}

// ContentExtractor extracts a publication's title and body text using
// CSS selector heuristics.
type ContentExtractor struct {
	Containers         []ContainerStrategy
	MinParagraphLength int
}

// NewContentExtractor creates a ContentExtractor with the default strategies.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{
		Containers:         DefaultContainerStrategies(),
		MinParagraphLength: DefaultMinParagraphLength,
	}
}

// Extract returns the page title and normalized body text.
func (e *ContentExtractor) Extract(html string) (*harvest.ExtractResult, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	return &harvest.ExtractResult{
		Title:   ExtractTitle(doc),
		Content: NormalizeText(e.body(doc)),
	}, nil
}

// ExtractTitle returns the whitespace-collapsed text of the first h1, or
// harvest.NoTitle if the document has none.
func ExtractTitle(doc *goquery.Document) string {
	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return harvest.NoTitle
	}
	return CollapseWhitespace(h1.Text())
}

func (e *ContentExtractor) body(doc *goquery.Document) string {
	for _, s := range e.Containers {
		container := s.Find(doc)
		if container.Length() == 0 {
			continue
		}
		return containerText(container)
	}
	return longParagraphs(doc, e.MinParagraphLength)
}

// containerText joins the text of body elements inside container, skipping
// navigation and byline elements.
func containerText(container *goquery.Selection) string {
	var parts []string
	container.Find(bodyElements).Each(func(_ int, sel *goquery.Selection) {
		if hasSkippedClass(sel) {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

func hasSkippedClass(sel *goquery.Selection) bool {
	class, ok := sel.Attr("class")
	if !ok {
		return false
	}
	for _, term := range skippedClassTerms {
		if strings.Contains(class, term) {
			return true
		}
	}
	return false
}

// longParagraphs joins every paragraph in the document whose trimmed text
// is longer than minLen characters.
func longParagraphs(doc *goquery.Document, minLen int) string {
	var parts []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(text) > minLen {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}
