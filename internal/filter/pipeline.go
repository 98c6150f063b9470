package filter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vep-filter/internal/table"
)

// RowSource yields table rows. Next returns nil, nil when exhausted.
type RowSource interface {
	Next() (*table.Row, error)
}

// RowSink receives the rows that pass every predicate.
type RowSink interface {
	Write(r *table.Row) error
}

// Pipeline applies an ordered conjunction of predicates to rows.
type Pipeline struct {
	predicates []Predicate
	logger     *zap.Logger
}

// NewPipeline creates a pipeline evaluating predicates left to right.
func NewPipeline(predicates ...Predicate) *Pipeline {
	return &Pipeline{
		predicates: predicates,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for per-row debug messages.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Predicates returns the predicates in evaluation order.
func (p *Pipeline) Predicates() []Predicate {
	return p.predicates
}

// Evaluate runs the predicates on a row, stopping at the first that
// rejects it. rejectedBy names that predicate when keep is false.
func (p *Pipeline) Evaluate(r *table.Row) (keep bool, rejectedBy string, err error) {
	for _, pred := range p.predicates {
		ok, err := pred.Keep(r)
		if err != nil {
			return false, pred.Name(), err
		}
		if !ok {
			return false, pred.Name(), nil
		}
	}
	return true, "", nil
}

// Run streams every row from src through the predicates and writes kept
// rows, in input order, to each sink.
func (p *Pipeline) Run(src RowSource, sinks ...RowSink) (*Stats, error) {
	stats := NewStats(p.predicates)

	for {
		row, err := src.Next()
		if err != nil {
			return stats, fmt.Errorf("read row: %w", err)
		}
		if row == nil {
			break
		}
		stats.Read++

		keep, rejectedBy, err := p.Evaluate(row)
		if err != nil {
			return stats, err
		}
		if !keep {
			stats.reject(rejectedBy)
			p.logger.Debug("row rejected",
				zap.Int("line", row.Line),
				zap.String("filter", rejectedBy))
			continue
		}

		stats.Kept++
		for _, sink := range sinks {
			if err := sink.Write(row); err != nil {
				return stats, fmt.Errorf("write row: %w", err)
			}
		}
	}

	return stats, nil
}
