package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/vep-filter/internal/table"
)

// Predicate decides whether a row is kept.
type Predicate interface {
	Name() string
	Keep(r *table.Row) (bool, error)
}

// MalformedValueError is returned when a numeric column holds a value that
// is neither a number nor an accepted placeholder.
type MalformedValueError struct {
	Line   int
	Column string
	Value  string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("line %d: malformed %s value %q", e.Line, e.Column, e.Value)
}

// below reports whether a numeric column value is strictly below limit.
// A value that does not parse but contains "-" is a placeholder and is
// resolved by policy. Values such as "1e-05" parse and are compared.
func below(r *table.Row, col int, name string, limit float64, policy PlaceholderPolicy) (bool, error) {
	raw := strings.TrimSpace(r.At(col))
	v, err := strconv.ParseFloat(raw, 64)
	if err == nil {
		return v < limit, nil
	}
	if strings.Contains(raw, Placeholder) {
		switch policy {
		case PlaceholderPass:
			return true, nil
		case PlaceholderDrop:
			return false, nil
		}
	}
	return false, &MalformedValueError{Line: r.Line, Column: name, Value: r.At(col)}
}

// AlleleFrequency keeps rows whose gnomAD allele frequency is below Max.
// Rows without frequency data are handled by Placeholder. Only values that
// fail to parse count as missing: "5e-01" is compared numerically and
// rejected, "3.979e-06" is kept.
type AlleleFrequency struct {
	Column      int
	Max         float64
	Placeholder PlaceholderPolicy
}

func (p *AlleleFrequency) Name() string { return "allele_frequency" }

func (p *AlleleFrequency) Keep(r *table.Row) (bool, error) {
	return below(r, p.Column, ColGnomADAF, p.Max, p.Placeholder)
}

// Consequence drops rows whose consequence contains any excluded term.
// Matching is by substring, so "intron_variant&NMD_transcript_variant" is
// excluded by "intron_variant".
type Consequence struct {
	Column  int
	Exclude []string
}

func (p *Consequence) Name() string { return "consequence" }

func (p *Consequence) Keep(r *table.Row) (bool, error) {
	value := r.At(p.Column)
	for _, term := range p.Exclude {
		if strings.Contains(value, term) {
			return false, nil
		}
	}
	return true, nil
}

// TranscriptWhitelist keeps rows whose line mentions any of IDs anywhere.
type TranscriptWhitelist struct {
	IDs []string
}

func (p *TranscriptWhitelist) Name() string { return "transcript_list" }

func (p *TranscriptWhitelist) Keep(r *table.Row) (bool, error) {
	for _, id := range p.IDs {
		if strings.Contains(r.Raw, id) {
			return true, nil
		}
	}
	return false, nil
}

// MANETranscript keeps rows with a MANE Select or MANE Plus Clinical transcript.
type MANETranscript struct {
	SelectColumn       int
	PlusClinicalColumn int
}

func (p *MANETranscript) Name() string { return "mane_transcript" }

func (p *MANETranscript) Keep(r *table.Row) (bool, error) {
	return r.At(p.SelectColumn) != Placeholder || r.At(p.PlusClinicalColumn) != Placeholder, nil
}

// SupportLevel keeps rows whose transcript support level is below Max.
type SupportLevel struct {
	Column      int
	Max         float64
	Placeholder PlaceholderPolicy
}

func (p *SupportLevel) Name() string { return "transcript_support_level" }

func (p *SupportLevel) Keep(r *table.Row) (bool, error) {
	return below(r, p.Column, ColTSL, p.Max, p.Placeholder)
}
