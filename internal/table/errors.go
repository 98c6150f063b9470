package table

import "fmt"

// ParseError represents an error reading the table with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("table parse error at line %d: %s", e.Line, e.Message)
}

// MissingColumnError is returned when a required column is absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in header", e.Column)
}

// ProjectionError is returned when an output field cannot be found in the
// columns being projected.
type ProjectionError struct {
	Field string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("output field %q not found in input columns", e.Field)
}
