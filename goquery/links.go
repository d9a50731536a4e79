package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// Default item URL shape for the FAS publications archive.
const (
	DefaultItemPrefix = "https://fas.org/publication/"
)

// DefaultExcludePrefixes are the archive index pages, which share a prefix
// with item URLs but are not items themselves.
func DefaultExcludePrefixes() []string {
	return []string{
		"https://fas.org/publications/",
		"https://fas.org/publications-archive/",
	}
}

// Ensure ItemLinkExtractor implements harvest.ItemLinkExtractor at compile time.
var _ harvest.ItemLinkExtractor = (*ItemLinkExtractor)(nil)

// ItemLinkExtractor finds item URLs of the form <prefix><slug> or
// <prefix><slug>/. The match is anchored: URLs with further path segments
// or a query string are rejected.
type ItemLinkExtractor struct {
	pattern  *regexp.Regexp
	excludes []string
}

// NewItemLinkExtractor creates an ItemLinkExtractor for the given item
// prefix (e.g. "https://fas.org/publication/"). URLs starting with any of
// the exclude prefixes are rejected even if they match.
func NewItemLinkExtractor(itemPrefix string, excludes ...string) (*ItemLinkExtractor, error) {
	u, err := url.Parse(itemPrefix)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid item prefix %q", itemPrefix)
	}
	if !strings.HasSuffix(itemPrefix, "/") {
		itemPrefix += "/"
	}
	return &ItemLinkExtractor{
		pattern:  regexp.MustCompile("^" + regexp.QuoteMeta(itemPrefix) + `[^/?#]+/?$`),
		excludes: excludes,
	}, nil
}

// Match reports whether rawURL is an item URL.
func (e *ItemLinkExtractor) Match(rawURL string) bool {
	if !e.pattern.MatchString(rawURL) {
		return false
	}
	for _, prefix := range e.excludes {
		if strings.HasPrefix(rawURL, prefix) {
			return false
		}
	}
	return true
}

// ExtractItemLinks parses HTML and returns item URLs in first-seen order.
func (e *ItemLinkExtractor) ExtractItemLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == nil {
			return
		}

		link := resolved.String()
		if seen[link] || !e.Match(link) {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return links, nil
}
