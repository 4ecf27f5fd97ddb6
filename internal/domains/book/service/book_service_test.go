package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/domains/book/model"
)

func TestListBooks_DefaultsPaging(t *testing.T) {
	repo := new(mockBookRepo)
	svc := NewBookService(repo)
	ctx := context.Background()

	rows := []model.BookWithAuthor{
		{Book: model.Book{ID: uuid.New(), Title: "Children of Dune"}, AuthorName: "Frank Herbert"},
		{Book: model.Book{ID: uuid.New(), Title: "Dune"}, AuthorName: "Frank Herbert"},
	}
	repo.On("ListBooks", ctx, model.DefaultPerPage, 0).Return(rows, nil)
	repo.On("CountBooks", ctx).Return(int64(2), nil)

	resp, err := svc.ListBooks(ctx, model.ListBooksRequest{})

	require.NoError(t, err)
	assert.Equal(t, model.DefaultPage, resp.Page)
	assert.Equal(t, model.DefaultPerPage, resp.PageSize)
	assert.Equal(t, int64(2), resp.TotalCount)
	require.Len(t, resp.Books, 2)
	assert.Equal(t, "Frank Herbert", resp.Books[0].AuthorName)
}

func TestListBooks_SecondPage(t *testing.T) {
	repo := new(mockBookRepo)
	svc := NewBookService(repo)
	ctx := context.Background()

	repo.On("ListBooks", ctx, 10, 10).Return([]model.BookWithAuthor{}, nil)
	repo.On("CountBooks", ctx).Return(int64(12), nil)

	resp, err := svc.ListBooks(ctx, model.ListBooksRequest{Page: 2, PerPage: 10})

	require.NoError(t, err)
	assert.Empty(t, resp.Books)
	repo.AssertExpectations(t)
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()
	price := decimal.RequireFromString("9.99")

	t.Run("unknown author", func(t *testing.T) {
		repo := new(mockBookRepo)
		repo.On("AuthorExists", ctx, authorID).Return(false, nil)

		_, err := NewBookService(repo).CreateBook(ctx, model.CreateBookRequest{Title: "Dune", AuthorID: authorID})

		assert.ErrorIs(t, err, model.ErrAuthorNotFound)
		repo.AssertNotCalled(t, "CreateBook", mock.Anything, mock.Anything)
	})

	t.Run("missing title", func(t *testing.T) {
		repo := new(mockBookRepo)

		_, err := NewBookService(repo).CreateBook(ctx, model.CreateBookRequest{AuthorID: authorID})

		assert.ErrorIs(t, err, model.ErrInvalidBook)
	})

	t.Run("negative price", func(t *testing.T) {
		neg := decimal.NewFromInt(-1)
		_, err := NewBookService(new(mockBookRepo)).CreateBook(ctx, model.CreateBookRequest{
			Title: "Dune", AuthorID: authorID, Price: &neg,
		})

		assert.ErrorIs(t, err, model.ErrInvalidBook)
	})

	t.Run("created", func(t *testing.T) {
		repo := new(mockBookRepo)
		repo.On("AuthorExists", ctx, authorID).Return(true, nil)
		repo.On("CreateBook", ctx, mock.MatchedBy(func(b *model.Book) bool {
			return b.Title == "Dune" && b.AuthorID == authorID && b.Price.Equal(price)
		})).Return(&model.Book{ID: uuid.New(), Title: "Dune", AuthorID: authorID, Price: &price}, nil)

		resp, err := NewBookService(repo).CreateBook(ctx, model.CreateBookRequest{
			Title: "  Dune ", AuthorID: authorID, Price: &price,
		})

		require.NoError(t, err)
		assert.Equal(t, "Dune", resp.Title)
		repo.AssertExpectations(t)
	})
}

func TestListByCategory_RequiresCategory(t *testing.T) {
	_, err := NewBookService(new(mockBookRepo)).ListByCategory(context.Background(), "   ")
	assert.ErrorIs(t, err, model.ErrInvalidCategory)
}

func TestListByAuthor_UnknownAuthor(t *testing.T) {
	repo := new(mockBookRepo)
	ctx := context.Background()
	id := uuid.New()
	repo.On("AuthorExists", ctx, id).Return(false, nil)

	_, err := NewBookService(repo).ListByAuthor(ctx, id)

	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestExportBooksToExcel(t *testing.T) {
	repo := new(mockBookRepo)
	ctx := context.Background()
	price := decimal.RequireFromString("12.5")
	year := 1965
	category := "Science Fiction"

	repo.On("ListAllForExport", ctx).Return([]model.BookWithAuthor{
		{
			Book:       model.Book{Title: "Dune", Price: &price, PublishYear: &year, Category: &category},
			AuthorName: "Frank Herbert",
		},
		{Book: model.Book{Title: "Untitled"}, AuthorName: "Anon"},
	}, nil)

	f, n, err := NewBookService(repo).ExportBooksToExcel(ctx)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, 2, n)
	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Title", rows[0][0])
	assert.Equal(t, []string{"Dune", "Frank Herbert", "", "Science Fiction", "", "12.50", "", "1965"}, rows[1])
	assert.Equal(t, "Anon", rows[2][1])
}
