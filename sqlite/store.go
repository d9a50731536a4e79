package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fwojciec/harvest"
)

// Compile-time interface verification.
var _ harvest.DatasetStore = (*Store)(nil)

// Store implements harvest.DatasetStore using SQLite.
type Store struct {
	db *DB
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Load returns all records in discovery order.
func (s *Store) Load(ctx context.Context) (harvest.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, page, title, content
		FROM records
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dataset := harvest.Dataset{}
	for rows.Next() {
		var r harvest.Record
		if err := rows.Scan(&r.URL, &r.Page, &r.Title, &r.Content); err != nil {
			return nil, err
		}
		dataset = append(dataset, &r)
	}

	return dataset, rows.Err()
}

// Append inserts records after the existing ones.
// Records whose URL is already stored are ignored.
func (s *Store) Append(ctx context.Context, records []*harvest.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertRecords(ctx, tx, records); err != nil {
		return err
	}

	return tx.Commit()
}

// Save replaces every stored record with the dataset in a single
// transaction.
func (s *Store) Save(ctx context.Context, dataset harvest.Dataset) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	if err := insertRecords(ctx, tx, dataset); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRecords(ctx context.Context, tx *sql.Tx, records []*harvest.Record) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO records (url, page, title, content)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, r.URL, r.Page, r.Title, r.Content); err != nil {
			return fmt.Errorf("failed to insert %s: %w", r.URL, err)
		}
	}
	return nil
}
