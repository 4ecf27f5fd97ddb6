package importer

import (
	"errors"
	"strings"
)

// Column headers recognized in import files. Matching is case-insensitive
// and ignores surrounding whitespace.
const (
	ColumnTitle        = "Title"
	ColumnAuthors      = "Authors"
	ColumnDescription  = "Description"
	ColumnCategory     = "Category"
	ColumnPublisher    = "Publisher"
	ColumnPrice        = "Price Starting With ($)"
	ColumnPublishMonth = "Publish Date (Month)"
	ColumnPublishYear  = "Publish Date (Year)"
)

var (
	// ErrInputMissing means no import file was supplied, or it was empty.
	ErrInputMissing = errors.New("import input is missing or empty")

	// ErrMalformedRow is returned by a RowSource for a record it could not
	// decode. The run skips that row and keeps reading.
	ErrMalformedRow = errors.New("malformed import row")

	// ErrReadInput wraps any other RowSource failure. It aborts the run.
	ErrReadInput = errors.New("failed to read import input")

	// ErrStoreFailure wraps persistence errors. It aborts the run.
	ErrStoreFailure = errors.New("import store failure")

	// ErrRowRejected marks a row-level resolution error; the row is skipped.
	ErrRowRejected = errors.New("import row rejected")
)

// Row is one raw record keyed by normalized header name. Line is the 1-based
// position in the source file and is used only for logging.
type Row struct {
	Line   int
	fields map[string]string
}

// NewRow builds a Row from header → value pairs.
func NewRow(line int, fields map[string]string) Row {
	normalized := make(map[string]string, len(fields))
	for k, v := range fields {
		normalized[normalizeHeader(k)] = v
	}
	return Row{Line: line, fields: normalized}
}

// Get returns the trimmed value of a column and whether it is present and
// non-empty. A column missing from the file is reported as absent.
func (r Row) Get(column string) (string, bool) {
	v, ok := r.fields[normalizeHeader(column)]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// RowSource yields rows sequentially. Next returns io.EOF when exhausted and
// an error wrapping ErrMalformedRow for an undecodable record.
type RowSource interface {
	Next() (Row, error)
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}
