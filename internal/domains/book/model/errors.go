package model

import (
	"errors"
	"net/http"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrInvalidBook     = errors.New("invalid book")
	ErrAuthorNotFound  = errors.New("author not found")
	ErrInvalidCategory = errors.New("category filter is required")

	// Import
	ErrImportInProgress   = errors.New("another import is already running")
	ErrUnsupportedFile    = errors.New("unsupported import file type")
	ErrImportJobNotFound  = errors.New("import job not found")
	ErrAsyncImportOffline = errors.New("async import is not configured")
)

var bookErrorMap = map[error]struct {
	Status int
	Code   string
}{
	ErrBookNotFound:       {http.StatusNotFound, "BOOK_NOT_FOUND"},
	ErrInvalidBook:        {http.StatusBadRequest, "INVALID_BOOK"},
	ErrAuthorNotFound:     {http.StatusBadRequest, "AUTHOR_NOT_FOUND"},
	ErrInvalidCategory:    {http.StatusBadRequest, "INVALID_CATEGORY"},
	ErrImportInProgress:   {http.StatusConflict, "IMPORT_IN_PROGRESS"},
	ErrUnsupportedFile:    {http.StatusBadRequest, "UNSUPPORTED_FILE"},
	ErrImportJobNotFound:  {http.StatusNotFound, "IMPORT_JOB_NOT_FOUND"},
	ErrAsyncImportOffline: {http.StatusServiceUnavailable, "ASYNC_IMPORT_UNAVAILABLE"},
}

// ToHTTPStatus maps a book domain error to its HTTP status; unknown errors are 500.
func ToHTTPStatus(err error) (int, string) {
	for target, mapped := range bookErrorMap {
		if errors.Is(err, target) {
			return mapped.Status, mapped.Code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
