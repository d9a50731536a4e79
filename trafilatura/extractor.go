// Package trafilatura provides a harvest.ContentExtractor backed by
// go-trafilatura.
package trafilatura

import (
	"errors"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements harvest.ContentExtractor at compile time.
var _ harvest.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the page title and plain text.
func (e *Extractor) Extract(rawHTML string) (*harvest.ExtractResult, error) {
	if rawHTML == "" {
		return nil, errors.New("empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	text := result.ContentText
	if text == "" && result.ContentNode != nil {
		text = nodeText(result.ContentNode)
	}

	title := goquery.CollapseWhitespace(result.Metadata.Title)
	if title == "" {
		title = harvest.NoTitle
	}

	return &harvest.ExtractResult{
		Title:   title,
		Content: goquery.NormalizeText(text),
	}, nil
}

// nodeText concatenates the text nodes under n, skipping script and style
// elements. Text nodes are separated by spaces so adjacent blocks do not
// run together.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
