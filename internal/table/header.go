// Package table reads, projects and writes tab-delimited VEP annotation tables.
package table

// Header holds the ordered column names of a table and a name lookup.
type Header struct {
	names      []string
	index      map[string]int
	duplicates []string
}

// NewHeader builds a header from column names.
// When a name occurs more than once, the first occurrence wins.
func NewHeader(names []string) *Header {
	h := &Header{
		names: names,
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, ok := h.index[name]; ok {
			h.duplicates = append(h.duplicates, name)
			continue
		}
		h.index[name] = i
	}
	return h
}

// Names returns the column names in file order.
func (h *Header) Names() []string {
	return h.names
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.names)
}

// Index returns the offset of the named column, or -1 if it is absent.
func (h *Header) Index(name string) int {
	if i, ok := h.index[name]; ok {
		return i
	}
	return -1
}

// Resolve returns the offsets of the named columns in the order given.
// It fails with a *MissingColumnError on the first absent name.
func (h *Header) Resolve(names ...string) ([]int, error) {
	offsets := make([]int, len(names))
	for i, name := range names {
		idx := h.Index(name)
		if idx < 0 {
			return nil, &MissingColumnError{Column: name}
		}
		offsets[i] = idx
	}
	return offsets, nil
}

// Duplicates returns column names that appeared more than once.
func (h *Header) Duplicates() []string {
	return h.duplicates
}
