// Package main provides the vep-filter command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vep-filter/internal/filter"
	"github.com/inodb/vep-filter/internal/table"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Output names used when the input is given as a positional argument.
const (
	defaultOutputFile       = "final_variants.txt"
	defaultIntermediateFile = "filtered_variant.txt"
)

// usageError marks errors caused by bad command-line usage.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	viper.Reset()
	root := newRootCmd()
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printHint(err)
		var ue *usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func printHint(err error) {
	var (
		mc *table.MissingColumnError
		pe *table.ProjectionError
		mv *filter.MalformedValueError
	)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
	case errors.As(err, &mc), errors.As(err, &pe):
		fmt.Fprintf(os.Stderr, "Hint: Export the VEP results as tab-delimited text with all output fields\n")
	case errors.As(err, &mv) && mv.Column == filter.ColTSL:
		fmt.Fprintf(os.Stderr, "Hint: Use --tsl-placeholder drop to skip rows without a transcript support level\n")
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "vep-filter [flags] [input-file]",
		Short: "Filter VEP annotation tables down to relevant variants",
		Long: `Filter a tab-delimited VEP annotation table, keeping rare variants with a
relevant consequence on a selected transcript, and write a fixed set of
24 output columns.`,
		Example: `  vep-filter -i vep_output.txt -o final_variants.txt
  vep-filter --transcript-filter list -i vep_output.txt -o panel_variants.txt
  vep-filter vep_output.txt                     # writes final_variants.txt
  vep-filter -i vep_output.txt -o out.txt --duckdb variants.duckdb --stats`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.vep-filter.yaml)")

	f := cmd.Flags()
	f.StringP("input_file", "i", "", "Input VEP tab-delimited file (use '-' for stdin)")
	f.StringP("output_file", "o", "", "Output file (default: "+defaultOutputFile+", '-' for stdout)")
	f.String("transcript-filter", string(filter.TranscriptMANE), "Transcript filter: mane or list")
	f.String("transcripts-file", "", "File of transcript IDs for the list transcript filter")
	f.String("tsl-placeholder", string(filter.PlaceholderError), "Rows with TSL '-': error, drop or pass")
	f.Float64("max-af", filter.DefaultMaxAF, "Keep rows with gnomAD_AF below this value")
	f.Float64("max-tsl", filter.DefaultMaxTSL, "Keep rows with TSL below this value")
	f.Bool("row-index", false, "Write a leading row index column")
	f.String("intermediate", "", "Write the unprojected filtered rows here; removed on success")
	f.String("duckdb", "", "Also export the output rows to this DuckDB database")
	f.Bool("stats", false, "Print a per-filter summary table to stderr")
	f.BoolP("verbose", "v", false, "Enable debug logging")

	for key, flag := range map[string]string{
		"filter.transcript":       "transcript-filter",
		"filter.transcripts_file": "transcripts-file",
		"filter.tsl_placeholder":  "tsl-placeholder",
		"filter.max_af":           "max-af",
		"filter.max_tsl":          "max-tsl",
		"output.row_index":        "row-index",
		"output.duckdb":           "duckdb",
		"log.verbose":             "verbose",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	cmd.AddCommand(newConfigCmd())

	return cmd
}

func runFilter(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input_file")
	output, _ := cmd.Flags().GetString("output_file")
	intermediate, _ := cmd.Flags().GetString("intermediate")
	showStats, _ := cmd.Flags().GetBool("stats")

	switch {
	case input == "" && len(args) == 1:
		input = args[0]
		if intermediate == "" {
			intermediate = defaultIntermediateFile
		}
	case input == "":
		return &usageError{msg: "input file required (--input_file or positional argument)"}
	case len(args) == 1:
		return &usageError{msg: "give the input either with --input_file or as an argument, not both"}
	}
	if output == "" {
		output = defaultOutputFile
	}

	logger, err := newLogger(viper.GetBool("log.verbose"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := loadFilterConfig()
	if err != nil {
		return err
	}

	logger.Debug("starting filter",
		zap.String("input", input),
		zap.String("output", output),
		zap.String("transcript_filter", string(cfg.Transcript)),
		zap.Float64("max_af", cfg.MaxAF),
		zap.Float64("max_tsl", cfg.MaxTSL))

	stats, err := filter.Run(filter.Options{
		Input:        input,
		Output:       output,
		Intermediate: intermediate,
		DuckDB:       viper.GetString("output.duckdb"),
		RowIndex:     viper.GetBool("output.row_index"),
		Config:       cfg,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if showStats {
		stats.Render(os.Stderr)
	}
	return nil
}

// loadFilterConfig builds the filter configuration from flags, environment,
// config file and defaults, in that order of precedence.
func loadFilterConfig() (filter.Config, error) {
	cfg := filter.DefaultConfig()
	cfg.MaxAF = viper.GetFloat64("filter.max_af")
	cfg.MaxTSL = viper.GetFloat64("filter.max_tsl")
	cfg.Transcript = filter.TranscriptMode(viper.GetString("filter.transcript"))
	cfg.TSLPlaceholder = filter.PlaceholderPolicy(viper.GetString("filter.tsl_placeholder"))
	cfg.AFPlaceholder = filter.PlaceholderPolicy(viper.GetString("filter.af_placeholder"))
	cfg.RequireAllColumns = viper.GetBool("filter.require_all_columns")

	if v := viper.GetStringSlice("filter.exclude_consequences"); len(v) > 0 {
		cfg.ExcludedConsequences = v
	}
	if v := viper.GetStringSlice("filter.transcripts"); len(v) > 0 {
		cfg.Transcripts = v
	}
	if path := viper.GetString("filter.transcripts_file"); path != "" {
		ids, err := filter.LoadTranscriptList(path)
		if err != nil {
			return cfg, err
		}
		cfg.Transcripts = ids
	}
	if v := viper.GetStringSlice("output.fields"); len(v) > 0 {
		cfg.OutputFields = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, &usageError{msg: err.Error()}
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
