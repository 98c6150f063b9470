package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vep-filter/internal/table"
)

// stagingTable receives rows while a run is in progress. It replaces
// VariantsTable only on Commit.
const stagingTable = VariantsTable + "_staging"

// Exporter appends projected rows to a staging table using the Appender
// API. It implements filter.RowSink. The variants table is left untouched
// until Commit; Abort discards everything written so far.
type Exporter struct {
	store    *Store
	conn     *sql.Conn
	appender *goduckdb.Appender
	proj     *table.Projection
	done     bool
}

// NewExporter creates an empty staging table with the projection's fields
// and prepares an appender for it.
func (s *Store) NewExporter(proj *table.Projection) (*Exporter, error) {
	if err := s.createStaging(proj.Fields()); err != nil {
		return nil, err
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		s.dropStaging()
		return nil, fmt.Errorf("get connection: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", stagingTable)
		return err
	}); err != nil {
		conn.Close()
		s.dropStaging()
		return nil, fmt.Errorf("create appender: %w", err)
	}

	return &Exporter{store: s, conn: conn, appender: appender, proj: proj}, nil
}

// Write appends the projected values of a row.
func (e *Exporter) Write(r *table.Row) error {
	values := e.proj.Apply(r)
	args := make([]driver.Value, len(values))
	for i, v := range values {
		args[i] = v
	}
	if err := e.appender.AppendRow(args...); err != nil {
		return fmt.Errorf("append variant: %w", err)
	}
	return nil
}

// Commit flushes pending rows and replaces the variants table with the
// staging table in a single transaction.
func (e *Exporter) Commit() error {
	if e.done {
		return nil
	}
	e.done = true

	err := e.appender.Close()
	if cerr := e.conn.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		e.store.dropStaging()
		return fmt.Errorf("close appender: %w", err)
	}

	tx, err := e.store.db.Begin()
	if err != nil {
		e.store.dropStaging()
		return fmt.Errorf("begin export: %w", err)
	}
	if _, err := tx.Exec("DROP TABLE IF EXISTS " + VariantsTable); err != nil {
		tx.Rollback()
		e.store.dropStaging()
		return fmt.Errorf("drop variants table: %w", err)
	}
	if _, err := tx.Exec("ALTER TABLE " + stagingTable + " RENAME TO " + VariantsTable); err != nil {
		tx.Rollback()
		e.store.dropStaging()
		return fmt.Errorf("rename staging table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		e.store.dropStaging()
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

// Abort releases the appender and drops the staging table. The variants
// table keeps the rows of the last committed export. Abort after Commit is
// a no-op.
func (e *Exporter) Abort() error {
	if e.done {
		return nil
	}
	e.done = true

	// Closing the appender flushes into the staging table, which is
	// dropped right after.
	e.appender.Close()
	e.conn.Close()
	return e.store.dropStaging()
}
