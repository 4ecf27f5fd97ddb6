package repository

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/author/model"
)

// RepositoryInterface defines author data access
type RepositoryInterface interface {
	Create(ctx context.Context, name string) (*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	GetByName(ctx context.Context, name string) (*model.Author, error)
	GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetBookCount(ctx context.Context, authorID uuid.UUID) (int, error)
	// InvalidateCache drops cached author reads, e.g. after an import created authors
	InvalidateCache(ctx context.Context) error
}
