// Package crawl drives the two harvesting stages: walking the archive's
// listing pages to discover item URLs, and enriching discovered records
// with each publication's title and body text.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/fwojciec/harvest"
)

// Default crawl limits.
const (
	DefaultMaxPages      = 53
	DefaultMaxEmptyPages = 3
)

// StopReason explains why a crawl ended.
type StopReason string

const (
	StoppedByMaxPages           StopReason = "max_pages"
	StoppedByNoNextPage         StopReason = "no_next_page"
	StoppedByFetchFailure       StopReason = "fetch_failure"
	StoppedByRepeatedEmptyPages StopReason = "repeated_empty_pages"
	StoppedBySelfLoop           StopReason = "self_loop"
	StoppedByCancel             StopReason = "canceled"
)

// CrawlConfig configures a single crawl.
type CrawlConfig struct {
	// BaseURL is the first listing page.
	BaseURL string

	// MaxPages caps the number of listing pages visited. Zero means no cap.
	MaxPages int

	// MaxEmptyPages stops the crawl after that many consecutive listing
	// pages without item links. Zero disables the check.
	MaxEmptyPages int
}

// Validate returns an error if the configuration cannot start a crawl.
func (c CrawlConfig) Validate() error {
	if c.BaseURL == "" {
		return harvest.Errorf(harvest.EINVALID, "base URL required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return harvest.Errorf(harvest.EINVALID, "invalid base URL %q", c.BaseURL)
	}
	if c.MaxPages < 0 {
		return harvest.Errorf(harvest.EINVALID, "max pages must not be negative, got %d", c.MaxPages)
	}
	if c.MaxEmptyPages < 0 {
		return harvest.Errorf(harvest.EINVALID, "max empty pages must not be negative, got %d", c.MaxEmptyPages)
	}
	return nil
}

// CrawlState is the outcome of a crawl.
type CrawlState struct {
	// CurrentURL is the last listing page the crawl reached.
	CurrentURL string

	// Page is the number of CurrentURL, starting at 1.
	Page int

	// Seen holds every known item URL in discovery order, including URLs
	// that were already in the dataset when the crawl started.
	Seen []string

	// EmptyPages is the number of consecutive listing pages, ending at
	// CurrentURL, that had no item links.
	EmptyPages int

	// Added is the number of records appended by this crawl.
	Added int

	Reason StopReason
}

// Crawler walks listing pages and appends newly discovered item URLs to the
// dataset.
type Crawler struct {
	Fetcher   harvest.Fetcher
	Links     harvest.ItemLinkExtractor
	Navigator harvest.PageNavigator
	Store     harvest.DatasetStore
	Delay     harvest.Delayer
	Logger    *slog.Logger
}

// Crawl visits listing pages starting at cfg.BaseURL until one of the stop
// conditions is met.
//
// A failed listing-page fetch ends the crawl without error. Store errors
// abort the crawl and are returned. If ctx is canceled the partial state is
// returned with ctx.Err().
func (c *Crawler) Crawl(ctx context.Context, cfg CrawlConfig) (*CrawlState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := c.logger()

	dataset, err := c.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	seen := NewSeenSet(dataset.URLs()...)
	if seen.Len() > 0 {
		logger.Info("resuming crawl", "known", seen.Len())
	}

	state := &CrawlState{CurrentURL: cfg.BaseURL, Page: 1}
	stop := func(reason StopReason) *CrawlState {
		state.Reason = reason
		state.Seen = seen.URLs()
		logger.Info("crawl stopped",
			"reason", string(reason),
			"page", state.Page,
			"added", state.Added,
			"known", seen.Len(),
		)
		return state
	}

	for {
		if err := c.Delay.Wait(ctx); err != nil {
			return stop(StoppedByCancel), err
		}

		html, err := c.Fetcher.Fetch(ctx, state.CurrentURL)
		if err != nil {
			if ctx.Err() != nil {
				return stop(StoppedByCancel), ctx.Err()
			}
			logger.Warn("listing page fetch failed", "page", state.Page, "url", state.CurrentURL, "err", err)
			return stop(StoppedByFetchFailure), nil
		}

		links, err := c.Links.ExtractItemLinks(html, state.CurrentURL)
		if err != nil {
			logger.Warn("item link extraction failed", "page", state.Page, "url", state.CurrentURL, "err", err)
			links = nil
		}

		var fresh []*harvest.Record
		batch := make(map[string]struct{}, len(links))
		for _, link := range links {
			if _, dup := batch[link]; dup || seen.Contains(link) {
				continue
			}
			batch[link] = struct{}{}
			fresh = append(fresh, &harvest.Record{URL: link, Page: state.Page})
		}

		// Persist before marking as seen so Seen never runs ahead of the dataset.
		if len(fresh) > 0 {
			if err := c.Store.Append(ctx, fresh); err != nil {
				state.Seen = seen.URLs()
				return state, fmt.Errorf("append page %d: %w", state.Page, err)
			}
			for _, r := range fresh {
				seen.Add(r.URL)
			}
			state.Added += len(fresh)
		}

		logger.Info("listing page",
			"page", state.Page,
			"url", state.CurrentURL,
			"links", len(links),
			"new", len(fresh),
		)

		if len(links) == 0 {
			state.EmptyPages++
			if cfg.MaxEmptyPages > 0 && state.EmptyPages >= cfg.MaxEmptyPages {
				return stop(StoppedByRepeatedEmptyPages), nil
			}
		} else {
			state.EmptyPages = 0
		}

		if cfg.MaxPages > 0 && state.Page >= cfg.MaxPages {
			return stop(StoppedByMaxPages), nil
		}

		next, ok := c.Navigator.NextPage(html, state.CurrentURL, state.Page)
		if !ok {
			return stop(StoppedByNoNextPage), nil
		}
		if next == state.CurrentURL {
			return stop(StoppedBySelfLoop), nil
		}

		state.CurrentURL = next
		state.Page++
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
