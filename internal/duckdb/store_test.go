package duckdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vep-filter/internal/table"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestExportAndLookup(t *testing.T) {
	s := openInMemory(t)

	h := table.NewHeader([]string{"Uploaded_variation", "Location", "SYMBOL", "MANE_SELECT"})
	proj, err := table.NewProjection(h, []string{"Location", "SYMBOL", "MANE_SELECT"})
	require.NoError(t, err)

	exp, err := s.NewExporter(proj)
	require.NoError(t, err)
	require.NoError(t, exp.Write(table.NewRow(h, 2, "", []string{"rs1", "12:25245350", "KRAS", "NM_004985.5"})))
	require.NoError(t, exp.Write(table.NewRow(h, 3, "", []string{"rs2", "17:7674220", "TP53", "NM_000546.6"})))
	require.NoError(t, exp.Commit())

	n, err := s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := s.LookupLocation("17:7674220")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "TP53", recs[0]["SYMBOL"])
	assert.Equal(t, "NM_000546.6", recs[0]["MANE_SELECT"])
	assert.NotContains(t, recs[0], "Uploaded_variation")

	recs, err = s.LookupLocation("1:1")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExportReplacesPreviousRows(t *testing.T) {
	s := openInMemory(t)

	h := table.NewHeader([]string{"Location"})
	proj, err := table.NewProjection(h, []string{"Location"})
	require.NoError(t, err)

	for range 2 {
		exp, err := s.NewExporter(proj)
		require.NoError(t, err)
		require.NoError(t, exp.Write(table.NewRow(h, 2, "", []string{"1:100"})))
		require.NoError(t, exp.Commit())
	}

	n, err := s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExportAbortKeepsCommittedRows(t *testing.T) {
	s := openInMemory(t)

	h := table.NewHeader([]string{"Location"})
	proj, err := table.NewProjection(h, []string{"Location"})
	require.NoError(t, err)

	exp, err := s.NewExporter(proj)
	require.NoError(t, err)
	require.NoError(t, exp.Write(table.NewRow(h, 2, "", []string{"1:100"})))
	require.NoError(t, exp.Write(table.NewRow(h, 3, "", []string{"1:200"})))
	require.NoError(t, exp.Commit())

	exp, err = s.NewExporter(proj)
	require.NoError(t, err)
	require.NoError(t, exp.Write(table.NewRow(h, 2, "", []string{"2:300"})))

	// Rows are not visible before Commit.
	n, err := s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, exp.Abort())
	require.NoError(t, exp.Commit(), "commit after abort is a no-op")

	n, err = s.CountVariants()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := s.LookupLocation("2:300")
	require.NoError(t, err)
	assert.Empty(t, recs)

	var staging int
	require.NoError(t, s.DB().QueryRow(
		"SELECT count(*) FROM information_schema.tables WHERE table_name = ?", stagingTable).Scan(&staging))
	assert.Zero(t, staging)
}

func TestExportAbortWithoutPreviousExport(t *testing.T) {
	s := openInMemory(t)

	h := table.NewHeader([]string{"Location"})
	proj, err := table.NewProjection(h, []string{"Location"})
	require.NoError(t, err)

	exp, err := s.NewExporter(proj)
	require.NoError(t, err)
	require.NoError(t, exp.Write(table.NewRow(h, 2, "", []string{"1:100"})))
	require.NoError(t, exp.Abort())

	_, err = s.CountVariants()
	assert.Error(t, err, "no variants table until an export commits")
}

func TestRecordRun(t *testing.T) {
	s := openInMemory(t)

	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("Location\n1:100\n"), 0644))
	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(15), fp.Size)

	require.NoError(t, s.RecordRun(fp, 10, 3))
	require.NoError(t, s.RecordRun(fp, 10, 3))

	n, err := s.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "variants.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
