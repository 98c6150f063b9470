package table

// Row is a single data line of the table.
type Row struct {
	Line   int      // 1-based line number in the input
	Raw    string   // line text without the trailing newline
	Fields []string // tab-separated values, one per header column

	header *Header
}

// NewRow creates a row bound to a header. It is mainly useful in tests.
func NewRow(h *Header, line int, raw string, fields []string) *Row {
	return &Row{Line: line, Raw: raw, Fields: fields, header: h}
}

// At returns the value at the given column offset.
func (r *Row) At(i int) string {
	return r.Fields[i]
}

// Get returns the value of the named column.
func (r *Row) Get(name string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i := r.header.Index(name)
	if i < 0 || i >= len(r.Fields) {
		return "", false
	}
	return r.Fields[i], true
}
