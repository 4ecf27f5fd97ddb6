package importer

import (
	"context"

	authorModel "library-catalog/internal/domains/author/model"
	bookModel "library-catalog/internal/domains/book/model"
)

// Store is the persistence port for one import run. Implementations are not
// shared between runs.
//
// Authors and books are committed differently: InsertAuthor persists the
// author immediately so later rows (and later runs) can see it, while
// InsertBook only stages the book until Commit. A run that fails after some
// authors were created leaves those authors in place and commits no books.
type Store interface {
	// FindAuthorByName returns authorModel.ErrAuthorNotFound when no author
	// has exactly this name.
	FindAuthorByName(ctx context.Context, name string) (*authorModel.Author, error)

	// InsertAuthor creates and commits a new author. A name collision is
	// reported as authorModel.ErrDuplicateName.
	InsertAuthor(ctx context.Context, name string) (*authorModel.Author, error)

	// InsertBook stages a book and assigns its ID.
	InsertBook(ctx context.Context, book *bookModel.Book) (*bookModel.Book, error)

	// Commit writes every staged book atomically.
	Commit(ctx context.Context) error
}
