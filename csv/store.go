// Package csv provides a harvest.DatasetStore backed by a CSV file with
// the header URL,Page,Title,Content.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fwojciec/harvest"
)

// Column names, in file order.
const (
	ColumnURL     = "URL"
	ColumnPage    = "Page"
	ColumnTitle   = "Title"
	ColumnContent = "Content"
)

// Header is the header row written to every dataset file.
var Header = []string{ColumnURL, ColumnPage, ColumnTitle, ColumnContent}

// Ensure Store implements harvest.DatasetStore at compile time.
var _ harvest.DatasetStore = (*Store)(nil)

// Store reads and writes a dataset CSV file.
//
// Append writes to the end of the file. Save writes a temporary file next
// to the target and renames it into place, so an interrupted save leaves
// the previous version intact.
type Store struct {
	path string
}

// NewStore creates a Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path of the dataset.
func (s *Store) Path() string {
	return s.path
}

// Load reads the dataset. A missing or empty file loads as an empty dataset.
// Files written with only the URL and Page columns are accepted.
func (s *Store) Load(ctx context.Context) (harvest.Dataset, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return harvest.Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return harvest.Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	dataset := harvest.Dataset{}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}

		record, err := cols.record(row)
		if err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "%s line %d: %s", s.path, line, harvest.ErrorMessage(err))
		}
		dataset = append(dataset, record)
	}

	return dataset, nil
}

// Append adds records to the end of the file, creating it with a header
// if needed. A file with a legacy or reordered header is rewritten in full
// with the canonical header.
func (s *Store) Append(ctx context.Context, records []*harvest.Record) error {
	if len(records) == 0 {
		return nil
	}

	header, err := s.readHeader()
	if err != nil {
		return err
	}

	switch {
	case header == nil:
		return s.writeNew(records)
	case !slices.Equal(header, Header):
		dataset, err := s.Load(ctx)
		if err != nil {
			return err
		}
		return s.Save(ctx, append(dataset, records...))
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open dataset for append: %w", err)
	}

	w := csv.NewWriter(f)
	if err := writeRecords(w, records); err != nil {
		f.Close()
		return fmt.Errorf("append dataset: %w", err)
	}
	return f.Close()
}

// Save replaces the file with the full dataset.
func (s *Store) Save(ctx context.Context, dataset harvest.Dataset) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write dataset header: %w", err)
	}
	if err := writeRecords(w, dataset); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close dataset: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

// readHeader returns the header row, or nil if the file is missing or empty.
func (s *Store) readHeader() ([]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	return header, nil
}

func (s *Store) writeNew(records []*harvest.Record) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return fmt.Errorf("write dataset header: %w", err)
	}
	if err := writeRecords(w, records); err != nil {
		f.Close()
		return fmt.Errorf("write dataset: %w", err)
	}
	return f.Close()
}

func writeRecords(w *csv.Writer, records []*harvest.Record) error {
	for _, r := range records {
		if err := w.Write([]string{r.URL, strconv.Itoa(r.Page), r.Title, r.Content}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// columns maps dataset fields to positions in a file's rows.
// Title and Content are -1 when the file lacks them.
type columns struct {
	url, page, title, content int
}

func indexColumns(header []string) (columns, error) {
	cols := columns{url: -1, page: -1, title: -1, content: -1}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, ColumnURL):
			cols.url = i
		case strings.EqualFold(name, ColumnPage):
			cols.page = i
		case strings.EqualFold(name, ColumnTitle):
			cols.title = i
		case strings.EqualFold(name, ColumnContent):
			cols.content = i
		}
	}
	if cols.url < 0 || cols.page < 0 {
		return cols, harvest.Errorf(harvest.EINVALID, "dataset header must contain %s and %s columns, got %v", ColumnURL, ColumnPage, header)
	}
	return cols, nil
}

func (c columns) record(row []string) (*harvest.Record, error) {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	page, err := parsePage(field(c.page))
	if err != nil {
		return nil, err
	}

	r := &harvest.Record{
		URL:     field(c.url),
		Page:    page,
		Title:   field(c.title),
		Content: field(c.content),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// parsePage accepts integers and integral floats ("3.0"), which some
// spreadsheet tools write for numeric columns.
func parsePage(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, harvest.Errorf(harvest.EINVALID, "invalid page %q", s)
	}
	return int(f), nil
}
