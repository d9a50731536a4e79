package crawl

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/harvest"
)

// DefaultCheckpointEvery is the number of attempted records between
// checkpoints.
const DefaultCheckpointEvery = 5

// EnrichOptions selects the window of records to process.
type EnrichOptions struct {
	// Start is the zero-based index of the first record.
	Start int

	// Limit caps the window size. Zero means through the end.
	Limit int
}

// Validate returns an error if the window is negative.
func (o EnrichOptions) Validate() error {
	if o.Start < 0 {
		return harvest.Errorf(harvest.EINVALID, "start must not be negative, got %d", o.Start)
	}
	if o.Limit < 0 {
		return harvest.Errorf(harvest.EINVALID, "limit must not be negative, got %d", o.Limit)
	}
	return nil
}

// EnrichResult holds the outcome of an enrichment run.
type EnrichResult struct {
	// Total is the number of records in the dataset.
	Total int

	// Start and End bound the processed window [Start, End).
	Start int
	End   int

	Enriched   int
	Skipped    int
	Failed     int
	Incomplete int

	// Bytes is the amount of body text written.
	Bytes int

	// Saves counts dataset writes, checkpoints and the final save included.
	Saves int
}

// Attempted returns the number of records that were fetched or failed to
// fetch.
func (r *EnrichResult) Attempted() int {
	return r.Enriched + r.Failed + r.Incomplete
}

func (r *EnrichResult) add(o *EnrichResult) {
	r.End = max(r.End, o.End)
	r.Enriched += o.Enriched
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Incomplete += o.Incomplete
	r.Bytes += o.Bytes
	r.Saves += o.Saves
}

// ProgressEvent reports progress during an enrichment run.
type ProgressEvent struct {
	Type ProgressType

	// Completed counts records handled so far in the window, this one included.
	Completed int
	Total     int

	URL   string
	Error error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressEnriched ProgressType = iota
	ProgressSkipped
	ProgressFailed
	ProgressIncomplete
	ProgressSaved
)

// ProgressFunc is a callback for reporting enrichment progress.
type ProgressFunc func(event ProgressEvent)

// Enricher fills in the title and body text of incomplete records.
type Enricher struct {
	Fetcher   harvest.Fetcher
	Extractor harvest.ContentExtractor
	Store     harvest.DatasetStore
	Delay     harvest.Delayer
	Logger    *slog.Logger

	// CheckpointEvery is the number of attempted records between saves.
	// Zero selects DefaultCheckpointEvery; negative disables checkpoints.
	CheckpointEvery int

	// Progress, if set, receives an event for every record in the window.
	Progress ProgressFunc
}

// Run enriches the records in the window selected by opts. Complete records
// are skipped. Fetch failures and empty extractions are counted and do not
// stop the run.
//
// The dataset is saved periodically and always at the end of the window.
// Save errors abort the run. If ctx is canceled the dataset is saved and
// ctx.Err() is returned with the partial result.
func (e *Enricher) Run(ctx context.Context, opts EnrichOptions) (*EnrichResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := e.logger()

	dataset, err := e.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	start := min(opts.Start, len(dataset))
	end := len(dataset)
	if opts.Limit > 0 {
		end = min(start+opts.Limit, len(dataset))
	}
	result := &EnrichResult{Total: len(dataset), Start: start, End: end}
	logger.Info("enrichment started",
		"records", len(dataset),
		"complete", dataset.CompleteCount(),
		"start", start,
		"end", end,
	)

	every := e.CheckpointEvery
	if every == 0 {
		every = DefaultCheckpointEvery
	}

	saved := Fingerprint(dataset)
	save := func(ctx context.Context, force bool) error {
		fp := Fingerprint(dataset)
		if !force && fp == saved {
			logger.Debug("checkpoint skipped, dataset unchanged")
			return nil
		}
		if err := e.Store.Save(ctx, dataset); err != nil {
			return fmt.Errorf("save dataset: %w", err)
		}
		saved = fp
		result.Saves++
		e.progress(ProgressEvent{Type: ProgressSaved, Completed: result.Attempted() + result.Skipped, Total: end - start})
		return nil
	}

	var canceled error
	for i := start; i < end; i++ {
		record := dataset[i]
		completed := i - start + 1

		if record.Complete() {
			result.Skipped++
			e.progress(ProgressEvent{Type: ProgressSkipped, Completed: completed, Total: end - start, URL: record.URL})
			continue
		}

		if err := e.enrich(ctx, record, result, completed, end-start); err != nil {
			canceled = err
			break
		}

		if every > 0 && result.Attempted()%every == 0 {
			if err := save(ctx, false); err != nil {
				return result, err
			}
		}
	}

	// The final save must run even when ctx has been canceled.
	if err := save(context.WithoutCancel(ctx), true); err != nil {
		return result, err
	}

	logger.Info("enrichment finished",
		"enriched", result.Enriched,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"incomplete", result.Incomplete,
		"complete", dataset.CompleteCount(),
		"records", len(dataset),
	)
	return result, canceled
}

// enrich fetches and extracts a single record, updating result. It returns
// a non-nil error only when ctx is canceled.
func (e *Enricher) enrich(ctx context.Context, record *harvest.Record, result *EnrichResult, completed, total int) error {
	logger := e.logger()

	if err := e.Delay.Wait(ctx); err != nil {
		return err
	}

	html, err := e.Fetcher.Fetch(ctx, record.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("fetch failed", "url", record.URL, "err", err)
		result.Failed++
		e.progress(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: record.URL, Error: err})
		return nil
	}

	extracted, err := e.Extractor.Extract(html)
	if err != nil {
		logger.Debug("extraction failed", "url", record.URL, "err", err)
		extracted = nil
	}
	if extracted == nil || extracted.Title == "" || extracted.Content == "" {
		logger.Warn("could not extract title and content", "url", record.URL)
		result.Incomplete++
		e.progress(ProgressEvent{Type: ProgressIncomplete, Completed: completed, Total: total, URL: record.URL})
		return nil
	}

	record.Title = extracted.Title
	record.Content = extracted.Content
	result.Enriched++
	result.Bytes += len(extracted.Content)
	logger.Debug("record enriched", "url", record.URL, "title", record.Title, "bytes", len(record.Content))
	e.progress(ProgressEvent{Type: ProgressEnriched, Completed: completed, Total: total, URL: record.URL})
	return nil
}

// RunBatches enriches the dataset from start to the end in windows of
// batchSize records, one Run per window. It returns the summed result.
func (e *Enricher) RunBatches(ctx context.Context, start, batchSize int) (*EnrichResult, error) {
	if batchSize <= 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "batch size must be positive, got %d", batchSize)
	}
	if start < 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "start must not be negative, got %d", start)
	}

	dataset, err := e.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	n := len(dataset)

	total := &EnrichResult{Total: n, Start: min(start, n), End: min(start, n)}
	for offset := start; offset < n; offset += batchSize {
		e.logger().Info("batch", "start", offset, "end", min(offset+batchSize, n))
		result, err := e.Run(ctx, EnrichOptions{Start: offset, Limit: batchSize})
		if result != nil {
			total.add(result)
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (e *Enricher) progress(event ProgressEvent) {
	if e.Progress != nil {
		e.Progress(event)
	}
}

func (e *Enricher) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
