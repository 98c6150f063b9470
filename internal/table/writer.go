package table

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Writer writes rows in tab-delimited format.
type Writer struct {
	w        *bufio.Writer
	rowIndex bool
	rows     int
}

// NewWriter creates a new tab-delimited writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// SetRowIndex enables a leading 0-based row index column with an empty
// header cell, the layout a pandas DataFrame export produces.
func (tw *Writer) SetRowIndex(enabled bool) {
	tw.rowIndex = enabled
}

// WriteHeader writes the header line.
func (tw *Writer) WriteHeader(columns []string) error {
	if tw.rowIndex {
		if _, err := tw.w.WriteString("\t"); err != nil {
			return err
		}
	}
	_, err := tw.w.WriteString(strings.Join(columns, "\t") + "\n")
	return err
}

// Write writes a single row of values.
func (tw *Writer) Write(values []string) error {
	if tw.rowIndex {
		if _, err := tw.w.WriteString(strconv.Itoa(tw.rows) + "\t"); err != nil {
			return err
		}
	}
	tw.rows++
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteLine writes a pre-formatted line verbatim.
func (tw *Writer) WriteLine(line string) error {
	tw.rows++
	_, err := tw.w.WriteString(line + "\n")
	return err
}

// Rows returns the number of data rows written.
func (tw *Writer) Rows() int {
	return tw.rows
}

// Flush flushes any buffered data to the underlying writer.
func (tw *Writer) Flush() error {
	return tw.w.Flush()
}
