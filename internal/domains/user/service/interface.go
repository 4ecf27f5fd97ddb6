package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-catalog/internal/domains/user/model"
)

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.UserDTO, error)
	// SeedDefaults creates the accounts that do not exist yet and returns how many were created
	SeedDefaults(ctx context.Context, accounts []model.SeedAccount) (int, error)
}

// TokenIssuer is satisfied by *jwt.Manager
type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, error)
	AccessTTL() time.Duration
}
