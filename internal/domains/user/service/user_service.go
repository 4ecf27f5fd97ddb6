package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"library-catalog/internal/domains/user/model"
	"library-catalog/internal/domains/user/repository"
	"library-catalog/internal/shared"
)

const defaultBcryptCost = 12

type userService struct {
	repo       repository.RepositoryInterface
	tokens     TokenIssuer
	bcryptCost int
}

func NewUserService(repo repository.RepositoryInterface, tokens TokenIssuer) ServiceInterface {
	return &userService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: defaultBcryptCost,
	}
}

// Register creates a user with role "user"
func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
	}

	u, err := s.create(ctx, req.Email, req.Password, req.FullName, shared.RoleUser)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("User registered")
	return u.ToDTO(), nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password return the same error.
func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessTTL().Seconds()),
		User:        u.ToDTO(),
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.UserDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ToDTO(), nil
}

func (s *userService) SeedDefaults(ctx context.Context, accounts []model.SeedAccount) (int, error) {
	created := 0
	for _, acc := range accounts {
		email := strings.ToLower(strings.TrimSpace(acc.Email))
		if acc.Role != shared.RoleAdmin && acc.Role != shared.RoleUser {
			return created, fmt.Errorf("%w: %q", model.ErrInvalidRole, acc.Role)
		}

		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return created, err
		}
		if exists {
			log.Debug().Str("email", email).Msg("Seed account already present")
			continue
		}

		if _, err := s.create(ctx, email, acc.Password, acc.FullName, acc.Role); err != nil {
			if errors.Is(err, model.ErrEmailAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("seed %s: %w", email, err)
		}
		created++
		log.Info().Str("email", email).Str("role", acc.Role).Msg("Seeded account")
	}
	return created, nil
}

func (s *userService) create(ctx context.Context, email, password, fullName, role string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
