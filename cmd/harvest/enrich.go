package main

import (
	"fmt"

	"github.com/fwojciec/harvest/crawl"
)

// urlDisplayWidth bounds URLs in progress lines.
const urlDisplayWidth = 72

// Run executes the enrich command.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	delay := crawl.NewRandomDelay(c.MinDelay, c.MaxDelay)
	if err := delay.Validate(); err != nil {
		return err
	}

	extractor, err := newExtractor(c.Extractor)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(c.Input, deps.Logger)
	if err != nil {
		return fmt.Errorf("open dataset %s: %w", c.Input, err)
	}
	defer closeStore()

	fetcher := newFetcher(deps, c.HTTPFlags, delay)
	defer fetcher.Close()

	enricher := &crawl.Enricher{
		Fetcher:         fetcher,
		Extractor:       extractor,
		Store:           store,
		Delay:           delay,
		Logger:          deps.Logger,
		CheckpointEvery: c.CheckpointEvery,
		Progress: func(event crawl.ProgressEvent) {
			url := crawl.TruncateURL(event.URL, urlDisplayWidth)
			switch event.Type {
			case crawl.ProgressEnriched:
				fmt.Fprintf(deps.Stdout, "  [%d/%d] ok   %s\n", event.Completed, event.Total, url)
			case crawl.ProgressIncomplete:
				fmt.Fprintf(deps.Stdout, "  [%d/%d] empty %s\n", event.Completed, event.Total, url)
			case crawl.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "  [%d/%d] skip %s: %v\n", event.Completed, event.Total, url, event.Error)
			}
		},
	}

	var result *crawl.EnrichResult
	if c.Batch > 0 {
		result, err = enricher.RunBatches(deps.Ctx, c.Start, c.Batch)
	} else {
		result, err = enricher.Run(deps.Ctx, crawl.EnrichOptions{Start: c.Start, Limit: c.Limit})
	}
	if result != nil {
		fmt.Fprintf(deps.Stdout, "Processed records %d-%d of %d\n", result.Start, result.End, result.Total)
		fmt.Fprintf(deps.Stdout, "  Enriched %d (%s), skipped %d complete, %d failed, %d without content\n",
			result.Enriched, crawl.FormatBytes(result.Bytes), result.Skipped, result.Failed, result.Incomplete)
	}
	return err
}
