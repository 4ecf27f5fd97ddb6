package repository

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/book/importer"
	"library-catalog/internal/domains/book/model"
)

// RepositoryInterface defines the book data access methods
type RepositoryInterface interface {
	// ListBooks returns one page ordered by title, each row with its author name
	ListBooks(ctx context.Context, limit, offset int) ([]model.BookWithAuthor, error)
	CountBooks(ctx context.Context) (int64, error)
	GetBookByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.BookWithAuthor, error)
	// ListByCategory matches category as a case-insensitive substring
	ListByCategory(ctx context.Context, category string) ([]model.BookWithAuthor, error)
	ListAllForExport(ctx context.Context) ([]model.BookWithAuthor, error)

	CreateBook(ctx context.Context, book *model.Book) (*model.Book, error)
	UpdateBook(ctx context.Context, book *model.Book) (*model.Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error)

	// InvalidateCache drops cached book reads after writes outside this repository
	InvalidateCache(ctx context.Context) error
}

// ImportStoreFactory opens a fresh persistence port for each import run
type ImportStoreFactory interface {
	NewImportStore() ImportStore
}

// ImportStore is the importer port plus the name lookup used by previews
type ImportStore interface {
	importer.Store
	importer.NameLookup
}

// ImportJobRepository tracks asynchronous import jobs
type ImportJobRepository interface {
	Create(ctx context.Context, job *model.ImportJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ImportJob, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, result *model.ImportResult) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}
