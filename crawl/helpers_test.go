package crawl_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/mock"
)

// memStore is an in-memory dataset backed by mock.DatasetStore. It copies
// records on every call so callers cannot mutate the stored state.
type memStore struct {
	mu      sync.Mutex
	records harvest.Dataset
	appends int
	saves   int
}

func newMemStore(records ...*harvest.Record) *memStore {
	return &memStore{records: clone(records)}
}

func (m *memStore) mock() *mock.DatasetStore {
	return &mock.DatasetStore{
		LoadFn: func(_ context.Context) (harvest.Dataset, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return clone(m.records), nil
		},
		AppendFn: func(_ context.Context, records []*harvest.Record) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.appends++
			m.records = append(m.records, clone(records)...)
			return nil
		},
		SaveFn: func(_ context.Context, dataset harvest.Dataset) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.saves++
			m.records = clone(dataset)
			return nil
		},
	}
}

func (m *memStore) snapshot() harvest.Dataset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.records)
}

func clone(records []*harvest.Record) harvest.Dataset {
	out := make(harvest.Dataset, len(records))
	for i, r := range records {
		c := *r
		out[i] = &c
	}
	return out
}

func noDelay() *mock.Delayer {
	return &mock.Delayer{WaitFn: func(ctx context.Context) error { return ctx.Err() }}
}

func itemURL(n int) string {
	return fmt.Sprintf("https://fas.org/publication/item-%d/", n)
}

func pageURL(n int) string {
	if n == 1 {
		return "https://fas.org/publications-archive/"
	}
	return fmt.Sprintf("https://fas.org/publications-archive/page/%d/", n)
}
