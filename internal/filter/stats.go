package filter

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
)

// Stats counts rows seen by a pipeline run.
type Stats struct {
	Read     int
	Kept     int
	Rejected map[string]int // by predicate name

	order []string
}

// NewStats creates empty statistics for the given predicates.
func NewStats(predicates []Predicate) *Stats {
	s := &Stats{Rejected: make(map[string]int, len(predicates))}
	for _, p := range predicates {
		s.order = append(s.order, p.Name())
		s.Rejected[p.Name()] = 0
	}
	return s
}

func (s *Stats) reject(name string) {
	if _, ok := s.Rejected[name]; !ok {
		s.order = append(s.order, name)
	}
	s.Rejected[name]++
}

// Fields returns the statistics as structured log fields.
func (s *Stats) Fields() []zap.Field {
	fields := []zap.Field{
		zap.Int("read", s.Read),
		zap.Int("kept", s.Kept),
	}
	for _, name := range s.order {
		fields = append(fields, zap.Int("rejected_"+name, s.Rejected[name]))
	}
	return fields
}

// Render writes a summary table of the run.
func (s *Stats) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Filter", "Rejected"})
	for _, name := range s.order {
		t.AppendRow(table.Row{name, s.Rejected[name]})
	}
	t.AppendFooter(table.Row{"kept", s.Kept})
	t.AppendFooter(table.Row{"read", s.Read})
	t.Render()
}
