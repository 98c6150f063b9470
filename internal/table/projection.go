package table

// Projection selects a fixed, ordered subset of columns from rows.
type Projection struct {
	fields  []string
	offsets []int
}

// NewProjection resolves fields against the header.
// It fails with a *ProjectionError naming the first field that is absent.
func NewProjection(h *Header, fields []string) (*Projection, error) {
	offsets := make([]int, len(fields))
	for i, f := range fields {
		idx := h.Index(f)
		if idx < 0 {
			return nil, &ProjectionError{Field: f}
		}
		offsets[i] = idx
	}
	return &Projection{fields: fields, offsets: offsets}, nil
}

// Fields returns the projected column names.
func (p *Projection) Fields() []string {
	return p.fields
}

// Apply returns the projected values of a row.
func (p *Projection) Apply(r *Row) []string {
	out := make([]string, len(p.offsets))
	for i, off := range p.offsets {
		out[i] = r.Fields[off]
	}
	return out
}
