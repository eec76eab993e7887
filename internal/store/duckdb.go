// Package store persists the assembled mutation mapping in a DuckDB
// database so downstream tools can look up protein changes by nucleotide
// change without re-reading the flat table.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/CovidMutations/mutmap/internal/mapping"
)

// insertBatchSize bounds how many pending entries are buffered before an
// automatic flush.
const insertBatchSize = 1000

// MappingStore is a DuckDB-backed copy of the mutation mapping table.
// It implements mapping.EntrySink.
type MappingStore struct {
	db      *sql.DB
	path    string
	pending []mapping.Entry
}

// Open opens (or creates) a DuckDB database at path.
func Open(path string) (*MappingStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &MappingStore{db: db, path: path}, nil
}

// CreateSchema creates the mapping table if it does not exist.
func (s *MappingStore) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS mutation_mapping (
			nucleotide VARCHAR NOT NULL,
			protein    VARCHAR NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create mapping schema: %w", err)
	}
	return nil
}

// AddEntry buffers one mapping entry, flushing a full batch to the
// database when the buffer fills.
func (s *MappingStore) AddEntry(e mapping.Entry) error {
	s.pending = append(s.pending, e)
	if len(s.pending) >= insertBatchSize {
		return s.Flush()
	}
	return nil
}

// Flush inserts all pending entries in a single transaction.
func (s *MappingStore) Flush() error {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO mutation_mapping (nucleotide, protein) VALUES (?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}

	for _, e := range s.pending {
		if _, err := stmt.Exec(e.Nucleotide, e.Protein); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("insert mapping entry %s: %w", e.Nucleotide, err)
		}
	}
	stmt.Close()

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert transaction: %w", err)
	}
	s.pending = s.pending[:0]
	return nil
}

// Lookup returns the protein changes recorded for a nucleotide change, in
// insertion order.
func (s *MappingStore) Lookup(nucleotide string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT protein
		FROM mutation_mapping
		WHERE nucleotide = ?
	`, nucleotide)
	if err != nil {
		return nil, fmt.Errorf("query mapping: %w", err)
	}
	defer rows.Close()

	var proteins []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan mapping row: %w", err)
		}
		proteins = append(proteins, p)
	}
	return proteins, rows.Err()
}

// Count returns the number of stored mapping entries.
func (s *MappingStore) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM mutation_mapping`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count mapping entries: %w", err)
	}
	return n, nil
}

// Close flushes pending entries and closes the database.
func (s *MappingStore) Close() error {
	if err := s.Flush(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}
