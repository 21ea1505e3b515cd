package collector

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Fetcher defines the interface for retrieving the case table.
type Fetcher interface {
	Fetch(ctx context.Context) (*Table, error)
	Name() string
}

// Table is a parsed header row plus a lazy reader over the remaining rows.
// The caller must Close it.
type Table struct {
	Header []string

	reader *csv.Reader
	body   io.Closer
}

// NewTable reads the header from r and returns a Table positioned at the
// first data row. Rows must all have the header's field count.
func NewTable(r io.ReadCloser) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		r.Close()
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Line: 1, Err: errors.New("empty table, no header row")}
		}
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}
	return &Table{Header: header, reader: reader, body: r}, nil
}

// Next returns the next data row, or io.EOF after the last one.
func (t *Table) Next() ([]string, error) {
	row, err := t.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &ParseError{Line: pe.Line, Err: pe.Err}
		}
		return nil, &ParseError{Err: err}
	}
	return row, nil
}

// Line returns the input line of the most recently read row.
func (t *Table) Line() int {
	line, _ := t.reader.FieldPos(0)
	return line
}

// Close releases the underlying response body.
func (t *Table) Close() error {
	if t.body == nil {
		return nil
	}
	return t.body.Close()
}
