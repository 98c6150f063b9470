package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlleleFrequency(t *testing.T) {
	h := testHeader()
	p := &AlleleFrequency{Column: h.Index(ColGnomADAF), Max: DefaultMaxAF, Placeholder: PlaceholderPass}

	tests := []struct {
		value string
		keep  bool
	}{
		{"-", true},
		{"0", true},
		{"0.0499", true},
		{"0.05", false},
		{"0.10", false},
		{"1", false},
		{"3.979e-06", true},
		{"5e-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			keep, err := p.Keep(testRow(h, map[string]string{ColGnomADAF: tt.value}))
			require.NoError(t, err)
			assert.Equal(t, tt.keep, keep)
		})
	}
}

func TestAlleleFrequency_Malformed(t *testing.T) {
	h := testHeader()
	p := &AlleleFrequency{Column: h.Index(ColGnomADAF), Max: DefaultMaxAF, Placeholder: PlaceholderPass}

	for _, value := range []string{"abc", ""} {
		_, err := p.Keep(testRow(h, map[string]string{ColGnomADAF: value}))
		var mv *MalformedValueError
		require.True(t, errors.As(err, &mv), "value %q", value)
		assert.Equal(t, ColGnomADAF, mv.Column)
		assert.Equal(t, value, mv.Value)
	}
}

func TestConsequence(t *testing.T) {
	h := testHeader()
	p := &Consequence{Column: h.Index(ColConsequence), Exclude: DefaultExcludedConsequences}

	tests := []struct {
		value string
		keep  bool
	}{
		{"missense_variant", true},
		{"stop_gained", true},
		{"frameshift_variant&splice_region_variant", true},
		{"intron_variant&non_coding_transcript_variant", false},
		{"synonymous_variant", false},
		{"splice_donor_variant&intron_variant", false},
		{"missense_variant&NMD_transcript_variant&3_prime_UTR_variant", false},
		{"splice_donor_variant_extra", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			keep, err := p.Keep(testRow(h, map[string]string{ColConsequence: tt.value}))
			require.NoError(t, err)
			assert.Equal(t, tt.keep, keep)
		})
	}
}

func TestTranscriptWhitelist(t *testing.T) {
	h := testHeader()
	p := &TranscriptWhitelist{IDs: DefaultTranscripts}

	keep, err := p.Keep(testRow(h, map[string]string{"Feature": "NM_000238.4"}))
	require.NoError(t, err)
	assert.True(t, keep)

	// Matches anywhere in the line, not only in Feature.
	keep, err = p.Keep(testRow(h, map[string]string{"Feature": "ENST00000262186", "MANE_SELECT": "NM_000238.4"}))
	require.NoError(t, err)
	assert.True(t, keep)

	keep, err = p.Keep(testRow(h, map[string]string{"Feature": "NM_004985.5"}))
	require.NoError(t, err)
	assert.False(t, keep)
}

func TestMANETranscript(t *testing.T) {
	h := testHeader()
	p := &MANETranscript{SelectColumn: h.Index(ColManeSelect), PlusClinicalColumn: h.Index(ColManePlusClinical)}

	tests := []struct {
		name   string
		values map[string]string
		keep   bool
	}{
		{"select", map[string]string{ColManeSelect: "NM_000238.4"}, true},
		{"plus clinical", map[string]string{ColManePlusClinical: "NM_001354870.1"}, true},
		{"both", map[string]string{ColManeSelect: "NM_000238.4", ColManePlusClinical: "NM_001354870.1"}, true},
		{"neither", map[string]string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keep, err := p.Keep(testRow(h, tt.values))
			require.NoError(t, err)
			assert.Equal(t, tt.keep, keep)
		})
	}
}

func TestSupportLevel(t *testing.T) {
	h := testHeader()
	col := h.Index(ColTSL)

	strict := &SupportLevel{Column: col, Max: DefaultMaxTSL, Placeholder: PlaceholderError}
	for value, keep := range map[string]bool{"1": true, "2": true, "3": false, "5": false} {
		got, err := strict.Keep(testRow(h, map[string]string{ColTSL: value}))
		require.NoError(t, err)
		assert.Equal(t, keep, got, "TSL %s", value)
	}

	_, err := strict.Keep(testRow(h, map[string]string{ColTSL: "-"}))
	var mv *MalformedValueError
	require.True(t, errors.As(err, &mv))
	assert.Equal(t, ColTSL, mv.Column)

	drop := &SupportLevel{Column: col, Max: DefaultMaxTSL, Placeholder: PlaceholderDrop}
	keep, err := drop.Keep(testRow(h, map[string]string{ColTSL: "-"}))
	require.NoError(t, err)
	assert.False(t, keep)

	pass := &SupportLevel{Column: col, Max: DefaultMaxTSL, Placeholder: PlaceholderPass}
	keep, err = pass.Keep(testRow(h, map[string]string{ColTSL: "-"}))
	require.NoError(t, err)
	assert.True(t, keep)

	// Non-numeric values without a placeholder are always malformed.
	_, err = drop.Keep(testRow(h, map[string]string{ColTSL: "NA"}))
	require.True(t, errors.As(err, &mv))
}
