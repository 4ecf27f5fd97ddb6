package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"library-catalog/internal/domains/author/model"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, filter model.AuthorFilter) (*model.ListAuthorsResponse, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).(*model.ListAuthorsResponse)
	return res, args.Error(1)
}

func (m *mockService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *mockService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *mockService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error) {
	args := m.Called(ctx, id, req)
	a, _ := args.Get(0).(*model.Author)
	return a, args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func setupRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthorHandler(svc)
	r := gin.New()
	r.GET("/authors", h.List)
	r.GET("/authors/:id", h.GetByID)
	r.POST("/authors", h.Create)
	r.DELETE("/authors/:id", h.Delete)
	return r
}

func TestGetByID(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(mockService)
		svc.On("GetByID", mock.Anything, id).Return(&model.Author{ID: id, Name: "Ursula K. Le Guin"}, nil)

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors/"+id.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Ursula K. Le Guin")
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mockService)
		svc.On("GetByID", mock.Anything, id).Return(nil, model.ErrAuthorNotFound)

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "AUTHOR_NOT_FOUND")
	})

	t.Run("bad uuid", func(t *testing.T) {
		w := httptest.NewRecorder()
		setupRouter(new(mockService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors/xyz", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreate(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, &model.CreateAuthorRequest{Name: "Octavia Butler"}).
		Return(&model.Author{ID: uuid.New(), Name: "Octavia Butler"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(`{"name":"Octavia Butler"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestDelete_Conflict(t *testing.T) {
	id := uuid.New()
	svc := new(mockService)
	svc.On("Delete", mock.Anything, id).Return(model.ErrAuthorHasBooks)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/authors/"+id.String(), nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHOR_HAS_BOOKS")
}

func TestList_PassesQuery(t *testing.T) {
	svc := new(mockService)
	svc.On("List", mock.Anything, model.AuthorFilter{Search: "her", Limit: 5, Offset: 10}).
		Return(&model.ListAuthorsResponse{Authors: []*model.AuthorResponse{}, Limit: 5, Offset: 10}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/authors?search=her&limit=5&offset=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
