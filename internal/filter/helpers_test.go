package filter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inodb/vep-filter/internal/table"
)

// testColumns is a VEP tab header carrying every output field plus
// columns that projection drops.
var testColumns = append(append([]string{"Uploaded_variation"}, DefaultOutputFields...), "IMPACT")

// vepRow returns a tab-joined row over testColumns. Unset columns are "-".
func vepRow(values map[string]string) string {
	fields := make([]string, len(testColumns))
	for i, c := range testColumns {
		if v, ok := values[c]; ok {
			fields[i] = v
		} else {
			fields[i] = "-"
		}
	}
	return strings.Join(fields, "\t")
}

// vepTable returns a VEP tab file with metadata, header and rows.
func vepTable(rows ...map[string]string) string {
	var b strings.Builder
	b.WriteString("## ENSEMBL VARIANT EFFECT PREDICTOR v110.1\n")
	b.WriteString("#" + strings.Join(testColumns, "\t") + "\n")
	for _, r := range rows {
		b.WriteString(vepRow(r) + "\n")
	}
	return b.String()
}

func testHeader() *table.Header {
	return table.NewHeader(testColumns)
}

func testRow(h *table.Header, values map[string]string) *table.Row {
	raw := vepRow(values)
	return table.NewRow(h, 2, raw, strings.Split(raw, "\t"))
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vep_output.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// sliceSource yields a fixed list of rows.
type sliceSource struct {
	rows []*table.Row
}

func (s *sliceSource) Next() (*table.Row, error) {
	if len(s.rows) == 0 {
		return nil, nil
	}
	r := s.rows[0]
	s.rows = s.rows[1:]
	return r, nil
}

type collectSink struct {
	rows []*table.Row
}

func (s *collectSink) Write(r *table.Row) error {
	s.rows = append(s.rows, r)
	return nil
}
