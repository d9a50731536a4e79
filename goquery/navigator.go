package goquery

import (
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// Ensure Navigator implements harvest.PageNavigator at compile time.
var _ harvest.PageNavigator = (*Navigator)(nil)

// PaginationStrategy is one heuristic for locating the next listing page.
// Find returns the absolute URL of the next page, or false if the strategy
// does not apply to the document.
type PaginationStrategy struct {
	Name string
	Find func(doc *goquery.Document, current *url.URL, page int) (string, bool)
}

// DefaultPaginationStrategies returns the strategies in resolution order:
// an explicit "next" link, a link encoding the next page number, and
// finally the conventional /page/2/ path when on the first page.
func DefaultPaginationStrategies() []PaginationStrategy {
	return []PaginationStrategy{
		{Name: "next-link", Find: FindNextLink},
		{Name: "page-number", Find: FindPageNumberLink},
		{Name: "conventional-path", Find: ConventionalPath},
	}
}

// Navigator locates the next listing page by trying strategies in order.
// The first strategy to return a URL wins.
type Navigator struct {
	Strategies []PaginationStrategy

	// Logger receives the name of the matching strategy. Optional.
	Logger *slog.Logger
}

// NewNavigator creates a Navigator using DefaultPaginationStrategies.
func NewNavigator() *Navigator {
	return &Navigator{Strategies: DefaultPaginationStrategies()}
}

// NextPage returns the URL of the page after currentURL.
// It does not reject a result equal to currentURL; callers guard against
// self-loops.
func (n *Navigator) NextPage(html string, currentURL string, page int) (string, bool) {
	current, err := url.Parse(currentURL)
	if err != nil {
		return "", false
	}
	doc, err := parse(html)
	if err != nil {
		return "", false
	}

	for _, s := range n.Strategies {
		next, ok := s.Find(doc, current, page)
		if !ok {
			continue
		}
		if n.Logger != nil {
			n.Logger.Debug("next page", "strategy", s.Name, "page", page, "url", next)
		}
		return next, true
	}
	return "", false
}

// paginationClassTerms mark an element as a pagination container when
// found in its class attribute.
var paginationClassTerms = []string{"pagination", "pager", "nav", "page-numbers"}

// nextTerms mark an anchor's visible text as a "next page" control.
var nextTerms = []string{"next", "more", "»", "→", "›", ">"}

// paginationContainers returns elements that look like pagination controls.
func paginationContainers(doc *goquery.Document) *goquery.Selection {
	return doc.Find("div, nav, ul, [role=navigation]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		if role, _ := sel.Attr("role"); strings.EqualFold(role, "navigation") {
			return true
		}
		class := strings.ToLower(sel.AttrOr("class", ""))
		for _, term := range paginationClassTerms {
			if strings.Contains(class, term) {
				return true
			}
		}
		return false
	})
}

// FindNextLink returns the first anchor inside a pagination container whose
// text reads as "next" (next, more, or a right-pointing glyph) or whose rel
// attribute is "next".
func FindNextLink(doc *goquery.Document, current *url.URL, _ int) (string, bool) {
	var next string
	paginationContainers(doc).Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !isNextAnchor(sel) {
			return true
		}
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return true
		}
		if resolved := resolveURL(current, href); resolved != nil {
			next = resolved.String()
			return false
		}
		return true
	})
	return next, next != ""
}

func isNextAnchor(sel *goquery.Selection) bool {
	for _, rel := range strings.Fields(strings.ToLower(sel.AttrOr("rel", ""))) {
		if rel == "next" {
			return true
		}
	}
	text := strings.ToLower(strings.TrimSpace(sel.Text()))
	if text == "" {
		return false
	}
	for _, term := range nextTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// pagePathPattern matches a /page/<n> path segment.
var pagePathPattern = regexp.MustCompile(`/page/(\d+)(?:/|$)`)

// pageQueryParams are query parameters that carry a page number.
var pageQueryParams = []string{"p", "page", "paged"}

// PageNumber returns the listing page number encoded in u, either as a
// /page/<n>/ path segment or as a p, page or paged query parameter.
func PageNumber(u *url.URL) (int, bool) {
	if m := pagePathPattern.FindStringSubmatch(u.Path); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	q := u.Query()
	for _, key := range pageQueryParams {
		if v := q.Get(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// FindPageNumberLink looks for links encoding a page number, first inside
// pagination containers and then across the whole document. A link to
// exactly page+1 wins; otherwise the highest numbered link is used if it
// is beyond the current page.
func FindPageNumberLink(doc *goquery.Document, current *url.URL, page int) (string, bool) {
	if next, ok := selectPageLink(paginationContainers(doc).Find("a[href]"), current, page); ok {
		return next, true
	}
	return selectPageLink(doc.Find("a[href]"), current, page)
}

func selectPageLink(anchors *goquery.Selection, current *url.URL, page int) (string, bool) {
	var maxURL string
	maxPage := 0
	var exact string

	anchors.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return true
		}
		resolved := resolveURL(current, href)
		if resolved == nil {
			return true
		}
		n, ok := PageNumber(resolved)
		if !ok {
			return true
		}
		if n == page+1 {
			exact = resolved.String()
			return false
		}
		if n > maxPage {
			maxPage = n
			maxURL = resolved.String()
		}
		return true
	})

	if exact != "" {
		return exact, true
	}
	if maxPage > page {
		return maxURL, true
	}
	return "", false
}

// ConventionalPath constructs <current>/page/2/ for the first listing page,
// following the archive's usual pagination scheme.
func ConventionalPath(_ *goquery.Document, current *url.URL, page int) (string, bool) {
	if page != 1 {
		return "", false
	}
	u := *current
	u.Path = strings.TrimSuffix(u.Path, "/") + "/page/2/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), true
}
