// Package duckdb exports filtered variants into a DuckDB database so they
// can be queried with SQL after a run.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// VariantsTable holds the projected rows of the most recent export.
const VariantsTable = "filtered_variants"

// Store manages a DuckDB connection for filtered variant exports.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates the run log table if it doesn't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS filter_runs (
		input_path VARCHAR,
		input_size BIGINT,
		input_modtime TIMESTAMP,
		rows_read BIGINT,
		rows_kept BIGINT,
		finished_at TIMESTAMP DEFAULT current_timestamp
	)`)
	return err
}

// createStaging creates an empty staging table with one VARCHAR column per
// field, replacing any left behind by an interrupted run.
func (s *Store) createStaging(fields []string) error {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = quoteIdent(f) + " VARCHAR"
	}
	if err := s.dropStaging(); err != nil {
		return err
	}
	if _, err := s.db.Exec("CREATE TABLE " + stagingTable + " (" + strings.Join(cols, ", ") + ")"); err != nil {
		return fmt.Errorf("create staging table: %w", err)
	}
	return nil
}

func (s *Store) dropStaging() error {
	if _, err := s.db.Exec("DROP TABLE IF EXISTS " + stagingTable); err != nil {
		return fmt.Errorf("drop staging table: %w", err)
	}
	return nil
}

// CountVariants returns the number of exported variant rows.
func (s *Store) CountVariants() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM " + VariantsTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return n, nil
}

// LookupLocation returns the exported rows at a VEP location (e.g.
// "12:25245350"), as maps from column name to value.
func (s *Store) LookupLocation(location string) ([]map[string]string, error) {
	rows, err := s.db.Query("SELECT * FROM "+VariantsTable+" WHERE "+quoteIdent("Location")+" = ?", location)
	if err != nil {
		return nil, fmt.Errorf("query location: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []map[string]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		rec := make(map[string]string, len(cols))
		for i, c := range cols {
			rec[c] = vals[i].String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}
	return out, nil
}

// RecordRun logs a completed filter run against its input file.
func (s *Store) RecordRun(input FileFingerprint, read, kept int) error {
	_, err := s.db.Exec(`INSERT INTO filter_runs
		(input_path, input_size, input_modtime, rows_read, rows_kept)
		VALUES (?, ?, ?, ?, ?)`,
		input.Path, input.Size, input.ModTime, read, kept)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM filter_runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
