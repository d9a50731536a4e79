package main

import (
	"fmt"

	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/goquery"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	delay := crawl.NewRandomDelay(c.MinDelay, c.MaxDelay)
	if err := delay.Validate(); err != nil {
		return err
	}

	links, err := goquery.NewItemLinkExtractor(c.ItemPrefix, c.Exclude...)
	if err != nil {
		return err
	}
	navigator := goquery.NewNavigator()
	navigator.Logger = deps.Logger

	store, closeStore, err := openStore(c.Output, deps.Logger)
	if err != nil {
		return fmt.Errorf("open dataset %s: %w", c.Output, err)
	}
	defer closeStore()

	fetcher := newFetcher(deps, c.HTTPFlags, delay)
	defer fetcher.Close()

	crawler := &crawl.Crawler{
		Fetcher:   fetcher,
		Links:     links,
		Navigator: navigator,
		Store:     store,
		Delay:     delay,
		Logger:    deps.Logger,
	}

	state, err := crawler.Crawl(deps.Ctx, crawl.CrawlConfig{
		BaseURL:       c.BaseURL,
		MaxPages:      c.MaxPages,
		MaxEmptyPages: c.MaxEmptyPages,
	})
	if state != nil {
		fmt.Fprintf(deps.Stdout, "Crawled %d listing pages (stopped: %s)\n", state.Page, state.Reason)
		fmt.Fprintf(deps.Stdout, "  Added %d publications, %d total in %s\n", state.Added, len(state.Seen), c.Output)
	}
	return err
}
