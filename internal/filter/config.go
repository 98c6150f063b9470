// Package filter selects biologically relevant rows from VEP annotation tables.
package filter

import (
	"fmt"
	"slices"

	"github.com/inodb/vep-filter/internal/table"
)

// Filter column names.
const (
	ColGnomADAF         = "gnomAD_AF"
	ColConsequence      = "Consequence"
	ColManeSelect       = "MANE_SELECT"
	ColManePlusClinical = "MANE_PLUS_CLINICAL"
	ColTSL              = "TSL"
)

// RequiredColumns are the columns resolved from the header before filtering.
var RequiredColumns = []string{
	ColGnomADAF,
	ColConsequence,
	ColManeSelect,
	ColManePlusClinical,
	ColTSL,
}

// Placeholder is the value VEP writes for a missing annotation.
const Placeholder = "-"

// Default thresholds. Rows pass when the value is strictly below the threshold.
const (
	DefaultMaxAF  = 0.05
	DefaultMaxTSL = 3
)

// DefaultExcludedConsequences are the SO terms whose presence drops a row.
var DefaultExcludedConsequences = []string{
	"downstream_gene_variant",
	"intron_variant",
	"upstream_gene_variant",
	"3_prime_UTR_variant",
	"non_coding_transcript_variant",
	"non_coding_transcript_exon_variant",
	"synonymous_variant",
	"5_prime_UTR_variant",
	"splice_donor_variant",
}

// DefaultTranscripts is the RefSeq whitelist used by the list transcript filter.
var DefaultTranscripts = []string{
	"NM_199460", "NM_006888", "NM_001127670",
	"NM_172201", "NM_000238", "NM_000218", "NM_000335",
	"NM_001099404", "NM_198056", "NM_005751",
	"NM_000890", "NM_174934", "NM_003098", "NM_001148",
	"NM_000891",
}

// DefaultOutputFields are the columns written to the final output, in order.
var DefaultOutputFields = []string{
	"Location", "Allele", "Consequence", "SYMBOL",
	"Gene", "Feature_type", "Feature", "BIOTYPE",
	"EXON", "cDNA_position", "CDS_position",
	"Protein_position", "Amino_acids", "Codons",
	"Existing_variation", "HGNC_ID", "MANE_SELECT",
	"MANE_PLUS_CLINICAL", "TSL", "SIFT", "PolyPhen",
	"gnomAD_AF", "CLIN_SIG", "PUBMED",
}

// TranscriptMode selects the transcript filter strategy.
type TranscriptMode string

const (
	// TranscriptList keeps rows whose line mentions a whitelisted transcript.
	TranscriptList TranscriptMode = "list"
	// TranscriptMANE keeps rows with a MANE Select or MANE Plus Clinical
	// designation, then applies the transcript support level filter.
	TranscriptMANE TranscriptMode = "mane"
)

// PlaceholderPolicy decides what a numeric filter does with a "-" value.
type PlaceholderPolicy string

const (
	PlaceholderPass  PlaceholderPolicy = "pass"
	PlaceholderDrop  PlaceholderPolicy = "drop"
	PlaceholderError PlaceholderPolicy = "error"
)

// Config holds the filter settings.
type Config struct {
	MaxAF                float64
	AFPlaceholder        PlaceholderPolicy
	ExcludedConsequences []string
	Transcript           TranscriptMode
	Transcripts          []string
	MaxTSL               float64
	TSLPlaceholder       PlaceholderPolicy
	OutputFields         []string

	// RequireAllColumns requires every name in RequiredColumns to be present,
	// even those the selected transcript strategy does not read.
	RequireAllColumns bool
}

// DefaultConfig returns the MANE pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxAF:                DefaultMaxAF,
		AFPlaceholder:        PlaceholderPass,
		ExcludedConsequences: slices.Clone(DefaultExcludedConsequences),
		Transcript:           TranscriptMANE,
		Transcripts:          slices.Clone(DefaultTranscripts),
		MaxTSL:               DefaultMaxTSL,
		TSLPlaceholder:       PlaceholderError,
		OutputFields:         slices.Clone(DefaultOutputFields),
		RequireAllColumns:    true,
	}
}

// Validate checks the configuration for unknown modes and empty lists.
func (c Config) Validate() error {
	switch c.Transcript {
	case TranscriptList:
		if len(c.Transcripts) == 0 {
			return fmt.Errorf("transcript filter %q requires at least one transcript ID", c.Transcript)
		}
	case TranscriptMANE:
	default:
		return fmt.Errorf("unknown transcript filter %q (want %q or %q)", c.Transcript, TranscriptList, TranscriptMANE)
	}
	for _, p := range []PlaceholderPolicy{c.AFPlaceholder, c.TSLPlaceholder} {
		switch p {
		case PlaceholderPass, PlaceholderDrop, PlaceholderError:
		default:
			return fmt.Errorf("unknown placeholder policy %q", p)
		}
	}
	if len(c.OutputFields) == 0 {
		return fmt.Errorf("no output fields configured")
	}
	return nil
}

// Build resolves the filter columns against the header and returns the
// predicate pipeline for this configuration.
func (c Config) Build(h *table.Header) (*Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.RequireAllColumns {
		if _, err := h.Resolve(RequiredColumns...); err != nil {
			return nil, err
		}
	}

	cols, err := h.Resolve(ColGnomADAF, ColConsequence)
	if err != nil {
		return nil, err
	}

	predicates := []Predicate{
		&AlleleFrequency{Column: cols[0], Max: c.MaxAF, Placeholder: c.AFPlaceholder},
		&Consequence{Column: cols[1], Exclude: c.ExcludedConsequences},
	}

	switch c.Transcript {
	case TranscriptList:
		predicates = append(predicates, &TranscriptWhitelist{IDs: c.Transcripts})
	case TranscriptMANE:
		mane, err := h.Resolve(ColManeSelect, ColManePlusClinical, ColTSL)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates,
			&MANETranscript{SelectColumn: mane[0], PlusClinicalColumn: mane[1]},
			&SupportLevel{Column: mane[2], Max: c.MaxTSL, Placeholder: c.TSLPlaceholder},
		)
	}

	return NewPipeline(predicates...), nil
}
