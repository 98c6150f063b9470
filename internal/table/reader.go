package table

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader reads rows from a tab-delimited VEP annotation table.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	header     *Header
}

// NewReader opens a table file and parses its header.
// Supports both plain and gzipped files. A path of "-" reads stdin.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table file: %w", err)
	}

	r, err := newReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// NewReaderFromReader creates a reader from an io.Reader (e.g., stdin).
func NewReaderFromReader(src io.Reader) (*Reader, error) {
	return newReader(src)
}

func newReader(src io.Reader) (*Reader, error) {
	r := &Reader{}
	br := bufio.NewReader(src)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = br
	}

	if err := r.parseHeader(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// readLine returns the next line without its line terminator.
// ok is false once the input is exhausted.
func (r *Reader) readLine() (line string, ok bool, err error) {
	line, err = r.reader.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", false, fmt.Errorf("read line: %w", err)
		}
		if line == "" {
			return "", false, nil
		}
	}
	r.lineNumber++
	return strings.TrimRight(line, "\r\n"), true, nil
}

// parseHeader skips "##" metadata lines and reads the column header.
// VEP prefixes its header with "#", which is stripped from the first name.
func (r *Reader) parseHeader() error {
	for {
		line, ok, err := r.readLine()
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if !ok {
			return &ParseError{
				Line:    r.lineNumber,
				Message: "no header line found",
			}
		}

		if line == "" || strings.HasPrefix(line, "##") {
			continue
		}

		line = strings.TrimPrefix(line, "#")
		r.header = NewHeader(strings.Split(line, "\t"))
		return nil
	}
}

// Next reads the next data row.
// Returns nil, nil when there are no more rows.
func (r *Reader) Next() (*Row, error) {
	for {
		line, ok, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != r.header.Len() {
			return nil, &ParseError{
				Line:    r.lineNumber,
				Message: fmt.Sprintf("expected %d columns, found %d", r.header.Len(), len(fields)),
			}
		}

		return &Row{
			Line:   r.lineNumber,
			Raw:    line,
			Fields: fields,
			header: r.header,
		}, nil
	}
}

// Header returns the parsed header.
func (r *Reader) Header() *Header {
	return r.header
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
