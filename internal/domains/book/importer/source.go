package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Supported import file extensions
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// ErrUnsupportedFormat is returned by OpenSource for unknown extensions.
var ErrUnsupportedFormat = fmt.Errorf("unsupported import format (want %s or %s)", ExtCSV, ExtXLSX)

// OpenSource picks a RowSource by file extension. Callers should close the
// returned source when it implements io.Closer.
func OpenSource(fileName string, r io.Reader) (RowSource, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ExtCSV, "":
		return NewCSVSource(r)
	case ExtXLSX:
		return NewXLSXSource(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

// CloseSource closes src if it holds resources.
func CloseSource(src RowSource) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
