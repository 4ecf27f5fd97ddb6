package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	bookModel "library-catalog/internal/domains/book/model"
)

// Importer runs one bulk import against a Store. Create a new Importer (and
// Store) per run.
type Importer struct {
	store    Store
	resolver *AuthorResolver
}

func New(store Store) *Importer {
	return &Importer{
		store:    store,
		resolver: NewAuthorResolver(store),
	}
}

// Run reads source to the end. Unusable rows are skipped and logged. Read
// failures and store failures abort the run without committing any book;
// authors created before the failure stay committed.
func (i *Importer) Run(ctx context.Context, source RowSource) (*bookModel.ImportResult, error) {
	if source == nil {
		return nil, ErrInputMissing
	}

	start := time.Now()
	skipped := make(map[SkipReason]int)
	rows := 0
	booksAdded := 0

	for {
		row, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		rows++

		if err != nil {
			if errors.Is(err, ErrMalformedRow) {
				i.logSkip(row.Line, SkipMalformedRow, err)
				skipped[SkipMalformedRow]++
				continue
			}
			if !errors.Is(err, ErrReadInput) {
				err = fmt.Errorf("%w: %w", ErrReadInput, err)
			}
			return nil, err
		}

		outcome := Parse(row)
		if outcome.Skipped() {
			i.logSkip(row.Line, outcome.Reason, nil)
			skipped[outcome.Reason]++
			continue
		}
		candidate := outcome.Candidate

		author, err := i.resolver.Resolve(ctx, candidate.AuthorName)
		if err != nil {
			if errors.Is(err, ErrRowRejected) {
				i.logSkip(row.Line, SkipInvalidAuthor, err)
				skipped[SkipInvalidAuthor]++
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %w", ErrStoreFailure, row.Line, err)
		}

		if _, err := i.store.InsertBook(ctx, candidate.ToBook(author.ID)); err != nil {
			return nil, fmt.Errorf("%w: line %d: stage book: %w", ErrStoreFailure, row.Line, err)
		}
		booksAdded++
	}

	if booksAdded > 0 {
		if err := i.store.Commit(ctx); err != nil {
			return nil, fmt.Errorf("%w: commit books: %w", ErrStoreFailure, err)
		}
	}

	result := &bookModel.ImportResult{
		AuthorsAdded: i.resolver.AuthorsAdded(),
		BooksAdded:   booksAdded,
	}

	logEvt := log.Info().
		Int("rows", rows).
		Int("authors_added", result.AuthorsAdded).
		Int("books_added", result.BooksAdded).
		Dur("duration", time.Since(start))
	for reason, n := range skipped {
		logEvt = logEvt.Int("skipped_"+string(reason), n)
	}
	logEvt.Msg("Book import finished")

	return result, nil
}

func (i *Importer) logSkip(line int, reason SkipReason, err error) {
	log.Debug().
		Err(err).
		Int("line", line).
		Str("reason", string(reason)).
		Msg("Skipping import row")
}
