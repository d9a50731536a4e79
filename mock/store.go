package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.DatasetStore = (*DatasetStore)(nil)

// DatasetStore is a mock implementation of harvest.DatasetStore.
type DatasetStore struct {
	LoadFn   func(ctx context.Context) (harvest.Dataset, error)
	AppendFn func(ctx context.Context, records []*harvest.Record) error
	SaveFn   func(ctx context.Context, dataset harvest.Dataset) error
}

func (s *DatasetStore) Load(ctx context.Context) (harvest.Dataset, error) {
	return s.LoadFn(ctx)
}

func (s *DatasetStore) Append(ctx context.Context, records []*harvest.Record) error {
	return s.AppendFn(ctx, records)
}

func (s *DatasetStore) Save(ctx context.Context, dataset harvest.Dataset) error {
	return s.SaveFn(ctx, dataset)
}
