package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"library-catalog/internal/domains/user/model"
	"library-catalog/internal/shared"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = uuid.New()
		u.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, email, role string) (string, error) {
	return "token-" + role, nil
}

func (stubTokens) AccessTTL() time.Duration { return time.Hour }

func newTestService(repo *mockRepo) *userService {
	svc := NewUserService(repo, stubTokens{}).(*userService)
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user role", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "reader@example.com" &&
				u.Role == shared.RoleUser &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Secret1")) == nil
		})).Return(nil)

		dto, err := newTestService(repo).Register(ctx, model.RegisterRequest{
			Email: " Reader@Example.com ", Password: "Secret1", FullName: "Reader",
		})

		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", dto.Email)
		assert.Equal(t, shared.RoleUser, dto.Role)
		repo.AssertExpectations(t)
	})

	weak := []string{"Ab1", "abcdef1", "ABCDEF1", "Abcdefg"}
	for _, pw := range weak {
		t.Run("rejects "+pw, func(t *testing.T) {
			repo := new(mockRepo)
			_, err := newTestService(repo).Register(ctx, model.RegisterRequest{
				Email: "reader@example.com", Password: pw, FullName: "Reader",
			})
			assert.ErrorIs(t, err, model.ErrInvalidRequest)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Create", ctx, mock.Anything).Return(model.ErrEmailAlreadyExists)

		_, err := newTestService(repo).Register(ctx, model.RegisterRequest{
			Email: "reader@example.com", Password: "Secret1", FullName: "Reader",
		})
		assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("Admin@123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &model.User{ID: uuid.New(), Email: "admin@email.com", PasswordHash: string(hash), Role: shared.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByEmail", ctx, "admin@email.com").Return(admin, nil)

		resp, err := newTestService(repo).Login(ctx, model.LoginRequest{Email: "ADMIN@email.com", Password: "Admin@123"})

		require.NoError(t, err)
		assert.Equal(t, "token-admin", resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
		assert.Equal(t, admin.ID, resp.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByEmail", ctx, "admin@email.com").Return(admin, nil)

		_, err := newTestService(repo).Login(ctx, model.LoginRequest{Email: "admin@email.com", Password: "nope"})
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetByEmail", ctx, "ghost@email.com").Return(nil, model.ErrUserNotFound)

		_, err := newTestService(repo).Login(ctx, model.LoginRequest{Email: "ghost@email.com", Password: "x"})
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	accounts := []model.SeedAccount{
		{Email: "admin@email.com", Password: "Admin@123", FullName: "Administrator", Role: shared.RoleAdmin},
		{Email: "user@email.com", Password: "User@123", FullName: "Default User", Role: shared.RoleUser},
	}

	repo := new(mockRepo)
	repo.On("ExistsByEmail", ctx, "admin@email.com").Return(true, nil)
	repo.On("ExistsByEmail", ctx, "user@email.com").Return(false, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "user@email.com" && u.Role == shared.RoleUser
	})).Return(nil).Once()

	created, err := newTestService(repo).SeedDefaults(ctx, accounts)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	repo.AssertExpectations(t)

	_, err = newTestService(new(mockRepo)).SeedDefaults(ctx, []model.SeedAccount{{Email: "x@y.z", Role: "root"}})
	assert.ErrorIs(t, err, model.ErrInvalidRole)
}
