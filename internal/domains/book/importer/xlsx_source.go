package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the first sheet of a workbook; its first row is the header.
type XLSXSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	line   int
}

func NewXLSXSource(r io.Reader) (*XLSXSource, error) {
	if r == nil {
		return nil, ErrInputMissing
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrReadInput, err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, ErrInputMissing
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: open sheet %q: %w", ErrReadInput, sheets[0], err)
	}

	s := &XLSXSource{file: f, rows: rows}

	if !rows.Next() {
		s.Close()
		if err := rows.Error(); err != nil {
			return nil, fmt.Errorf("%w: read header: %w", ErrReadInput, err)
		}
		return nil, ErrInputMissing
	}
	s.line = 1

	header, err := rows.Columns()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: read header: %w", ErrReadInput, err)
	}
	if len(header) == 0 {
		s.Close()
		return nil, ErrInputMissing
	}

	s.header = make([]string, len(header))
	for i, h := range header {
		s.header[i] = normalizeHeader(h)
	}

	return s, nil
}

func (s *XLSXSource) Next() (Row, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return Row{}, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		return Row{}, io.EOF
	}
	s.line++

	cells, err := s.rows.Columns()
	if err != nil {
		return Row{Line: s.line}, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, s.line, err)
	}

	fields := make(map[string]string, len(s.header))
	for i, col := range s.header {
		if i >= len(cells) {
			break
		}
		if _, dup := fields[col]; dup {
			continue
		}
		fields[col] = cells[i]
	}

	return Row{Line: s.line, fields: fields}, nil
}

// Close releases the sheet iterator and the workbook's temp files.
func (s *XLSXSource) Close() error {
	if s.rows != nil {
		s.rows.Close()
	}
	return s.file.Close()
}
