package filter

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/inodb/vep-filter/internal/duckdb"
	"github.com/inodb/vep-filter/internal/table"
)

// Options configures a filter run over one input file.
type Options struct {
	Input  string // "-" reads stdin
	Output string // "-" writes stdout

	// Intermediate, when set, receives the unprojected filtered rows. The
	// file is removed once the run succeeds and kept for inspection otherwise.
	Intermediate string

	// DuckDB, when set, also exports the projected rows to this database.
	DuckDB string

	RowIndex bool
	Config   Config
	Logger   *zap.Logger
}

// projectedSink writes the projected values of each row.
type projectedSink struct {
	w    *table.Writer
	proj *table.Projection
}

func (s projectedSink) Write(r *table.Row) error {
	return s.w.Write(s.proj.Apply(r))
}

// rawSink writes rows verbatim.
type rawSink struct {
	w *table.Writer
}

func (s rawSink) Write(r *table.Row) error {
	return s.w.WriteLine(r.Raw)
}

// Run filters opts.Input and writes the projected rows to opts.Output.
// The output file only appears once every row has been written.
func Run(opts Options) (*Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	reader, err := table.NewReader(opts.Input)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	header := reader.Header()
	for _, name := range header.Duplicates() {
		logger.Warn("duplicate column in header, using first occurrence", zap.String("column", name))
	}

	pipeline, err := opts.Config.Build(header)
	if err != nil {
		return nil, err
	}
	pipeline.SetLogger(logger)

	proj, err := table.NewProjection(header, opts.Config.OutputFields)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	var outFile *table.AtomicFile
	if opts.Output != "-" {
		outFile, err = table.CreateAtomic(opts.Output)
		if err != nil {
			return nil, err
		}
		defer outFile.Abort()
		out = outFile
	}

	writer := table.NewWriter(out)
	writer.SetRowIndex(opts.RowIndex)
	if err := writer.WriteHeader(proj.Fields()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	sinks := []RowSink{projectedSink{w: writer, proj: proj}}

	var intermediate *table.Writer
	var intermediateFile *os.File
	if opts.Intermediate != "" {
		intermediateFile, err = os.Create(opts.Intermediate)
		if err != nil {
			return nil, fmt.Errorf("create intermediate file: %w", err)
		}
		defer intermediateFile.Close()
		intermediate = table.NewWriter(intermediateFile)
		if err := intermediate.WriteHeader(header.Names()); err != nil {
			return nil, fmt.Errorf("write intermediate header: %w", err)
		}
		sinks = append(sinks, rawSink{w: intermediate})
	}

	var store *duckdb.Store
	var exporter *duckdb.Exporter
	if opts.DuckDB != "" {
		store, err = duckdb.Open(opts.DuckDB)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		exporter, err = store.NewExporter(proj)
		if err != nil {
			return nil, err
		}
		defer exporter.Abort()
		sinks = append(sinks, exporter)
	}

	stats, err := pipeline.Run(reader, sinks...)
	if err != nil {
		if intermediate != nil {
			intermediate.Flush()
			logger.Info("kept intermediate file after failed run", zap.String("path", opts.Intermediate))
		}
		return stats, err
	}

	if err := writer.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}
	if outFile != nil {
		if err := outFile.Commit(); err != nil {
			return stats, err
		}
		logger.Debug("wrote output", zap.String("path", outFile.Path()), zap.Int("rows", writer.Rows()))
	}
	if exporter != nil {
		if err := exporter.Commit(); err != nil {
			return stats, err
		}
	}

	if intermediate != nil {
		if err := intermediate.Flush(); err != nil {
			return stats, fmt.Errorf("flush intermediate file: %w", err)
		}
		intermediateFile.Close()
		if err := os.Remove(opts.Intermediate); err != nil {
			return stats, fmt.Errorf("remove intermediate file: %w", err)
		}
	}

	if store != nil {
		if err := recordExport(store, opts, stats, logger); err != nil {
			return stats, err
		}
	}

	logger.Info("filtering complete", append(stats.Fields(), zap.Int("lines", reader.LineNumber()))...)
	return stats, nil
}

// recordExport logs the run in the database and reports what the
// variants table now holds.
func recordExport(store *duckdb.Store, opts Options, stats *Stats, logger *zap.Logger) error {
	fp, err := duckdb.StatFile(opts.Input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if err := store.RecordRun(fp, stats.Read, stats.Kept); err != nil {
		return err
	}

	variants, err := store.CountVariants()
	if err != nil {
		return err
	}
	runs, err := store.RunCount()
	if err != nil {
		return err
	}
	logger.Info("exported variants",
		zap.String("database", opts.DuckDB),
		zap.String("table", duckdb.VariantsTable),
		zap.Int("variants", variants),
		zap.Int("runs", runs))
	return nil
}
