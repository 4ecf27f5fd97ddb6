package repository

import (
	"context"

	"github.com/google/uuid"

	"library-catalog/internal/domains/user/model"
)

// RepositoryInterface is the user persistence layer
type RepositoryInterface interface {
	// Create inserts the user and fills ID and timestamps. A taken email
	// returns ErrEmailAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
