// Package readability provides a harvest.ContentExtractor backed by
// go-readability, for archives whose pages lack the containers the
// selector-based extractor looks for.
package readability

import (
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements harvest.ContentExtractor at compile time.
var _ harvest.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main text of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article title and plain text.
func (e *Extractor) Extract(rawHTML string) (*harvest.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	title := goquery.CollapseWhitespace(article.Title)
	if title == "" {
		title = harvest.NoTitle
	}

	return &harvest.ExtractResult{
		Title:   title,
		Content: goquery.NormalizeText(article.TextContent),
	}, nil
}
