package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Ensure LoggingStore implements harvest.DatasetStore.
var _ harvest.DatasetStore = (*LoggingStore)(nil)

// LoggingStore wraps a DatasetStore with logging.
type LoggingStore struct {
	next   harvest.DatasetStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next harvest.DatasetStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

func (s *LoggingStore) Load(ctx context.Context) (dataset harvest.Dataset, err error) {
	defer func(begin time.Time) {
		s.logger.Info("dataset load",
			"count", len(dataset),
			"complete", dataset.CompleteCount(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

func (s *LoggingStore) Append(ctx context.Context, records []*harvest.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("dataset append",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Append(ctx, records)
}

func (s *LoggingStore) Save(ctx context.Context, dataset harvest.Dataset) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("dataset save",
			"count", len(dataset),
			"complete", dataset.CompleteCount(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, dataset)
}
