package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// CSVSource reads a header-driven CSV stream. Records may have fewer or more
// fields than the header; extra fields are ignored and missing ones are absent.
type CSVSource struct {
	reader *csv.Reader
	header []string
}

// NewCSVSource consumes the header line. A stream with no header at all is
// reported as ErrInputMissing.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	if r == nil {
		return nil, ErrInputMissing
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInputMissing
		}
		return nil, fmt.Errorf("%w: read header: %w", ErrReadInput, err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = normalizeHeader(h)
	}

	return &CSVSource{reader: reader, header: cols}, nil
}

// Next returns the next record, io.EOF at end of stream, or an error
// wrapping ErrMalformedRow for a record the CSV decoder rejected.
func (s *CSVSource) Next() (Row, error) {
	record, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return Row{Line: parseErr.StartLine}, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		return Row{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	line, _ := s.reader.FieldPos(0)

	fields := make(map[string]string, len(s.header))
	for i, col := range s.header {
		if i >= len(record) {
			break
		}
		if _, dup := fields[col]; dup {
			continue
		}
		fields[col] = record[i]
	}

	return Row{Line: line, fields: fields}, nil
}
