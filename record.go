package harvest

import "context"

// Record is one publication in the dataset.
// Title and Content are empty until the record has been enriched.
type Record struct {
	URL     string `json:"url"`
	Page    int    `json:"page"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Complete reports whether both Title and Content are populated.
// Complete records are never refetched.
func (r *Record) Complete() bool {
	return r.Title != "" && r.Content != ""
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	if r.Page < 1 {
		return Errorf(EINVALID, "record page must be >= 1, got %d", r.Page)
	}
	return nil
}

// Dataset is the ordered list of records. Order is discovery order.
type Dataset []*Record

// URLs returns the record URLs in dataset order.
func (d Dataset) URLs() []string {
	urls := make([]string, len(d))
	for i, r := range d {
		urls[i] = r.URL
	}
	return urls
}

// CompleteCount returns the number of complete records.
func (d Dataset) CompleteCount() int {
	var n int
	for _, r := range d {
		if r.Complete() {
			n++
		}
	}
	return n
}

// DatasetStore persists a dataset. A store is bound to a single location
// (file path or database) at construction.
//
// Only one process may use a location at a time; there is no
// concurrent-writer protocol.
type DatasetStore interface {
	// Load reads the whole dataset. A location that does not exist yet
	// loads as an empty dataset.
	Load(ctx context.Context) (Dataset, error)

	// Append adds records to the end of the dataset.
	Append(ctx context.Context, records []*Record) error

	// Save replaces the persisted dataset with the given records.
	Save(ctx context.Context, dataset Dataset) error
}
