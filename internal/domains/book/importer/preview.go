package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	authorModel "library-catalog/internal/domains/author/model"
	bookModel "library-catalog/internal/domains/book/model"
)

// NameLookup reports which of the given author names already exist.
type NameLookup interface {
	FindExistingNames(ctx context.Context, names []string) ([]string, error)
}

// Preview parses source without writing anything and reports what a real run
// would do, assuming no concurrent imports.
func Preview(ctx context.Context, source RowSource, lookup NameLookup) (*bookModel.ImportPreview, error) {
	if source == nil {
		return nil, ErrInputMissing
	}

	preview := &bookModel.ImportPreview{
		Skipped:    make(map[string]int),
		NewAuthors: []string{},
	}
	var names []string
	seen := make(map[string]struct{})

	for {
		row, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		preview.TotalRows++

		if err != nil {
			if errors.Is(err, ErrMalformedRow) {
				preview.Skipped[string(SkipMalformedRow)]++
				continue
			}
			return nil, err
		}

		outcome := Parse(row)
		if outcome.Skipped() {
			preview.Skipped[string(outcome.Reason)]++
			continue
		}

		name := outcome.Candidate.AuthorName
		if err := authorModel.ValidateName(name); err != nil {
			preview.Skipped[string(SkipInvalidAuthor)]++
			continue
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
		preview.Candidates++
	}

	preview.DistinctAuthors = len(names)
	if len(names) == 0 {
		return preview, nil
	}

	existing, err := lookup.FindExistingNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup authors: %w", ErrStoreFailure, err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		known[n] = struct{}{}
	}
	for _, n := range names {
		if _, ok := known[n]; !ok {
			preview.NewAuthors = append(preview.NewAuthors, n)
		}
	}

	return preview, nil
}
