package harvest_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Complete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record harvest.Record
		want   bool
	}{
		{"new record", harvest.Record{URL: "https://example.com/publication/a/", Page: 1}, false},
		{"title only", harvest.Record{URL: "u", Page: 1, Title: "A"}, false},
		{"content only", harvest.Record{URL: "u", Page: 1, Content: "body"}, false},
		{"both fields", harvest.Record{URL: "u", Page: 1, Title: "A", Content: "body"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.record.Complete())
		})
	}
}

func TestRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()
		err := (&harvest.Record{Page: 1}).Validate()
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("requires positive page", func(t *testing.T) {
		t.Parallel()
		err := (&harvest.Record{URL: "https://example.com/publication/a/"}).Validate()
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("accepts discovered record", func(t *testing.T) {
		t.Parallel()
		err := (&harvest.Record{URL: "https://example.com/publication/a/", Page: 3}).Validate()
		assert.NoError(t, err)
	})
}

func TestDataset(t *testing.T) {
	t.Parallel()

	d := harvest.Dataset{
		{URL: "https://example.com/publication/a/", Page: 1, Title: "A", Content: "a"},
		{URL: "https://example.com/publication/b/", Page: 1},
		{URL: "https://example.com/publication/c/", Page: 2, Title: "C", Content: "c"},
	}

	assert.Equal(t, []string{
		"https://example.com/publication/a/",
		"https://example.com/publication/b/",
		"https://example.com/publication/c/",
	}, d.URLs())
	assert.Equal(t, 2, d.CompleteCount())
}
