package service

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/author/model"
)

// ServiceInterface is the author business layer used by the HTTP handler
type ServiceInterface interface {
	List(ctx context.Context, filter model.AuthorFilter) (*model.ListAuthorsResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error)
	// Delete refuses authors that still have books
	Delete(ctx context.Context, id uuid.UUID) error
}
