package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/repository"
)

const exportSheetName = "Books"

// BookService implements ServiceInterface
type BookService struct {
	repo repository.RepositoryInterface
}

func NewBookService(repo repository.RepositoryInterface) ServiceInterface {
	return &BookService{repo: repo}
}

// ============================================
// READS
// ============================================

func (s *BookService) ListBooks(ctx context.Context, req model.ListBooksRequest) (*model.ListBooksResponse, error) {
	req.Normalize()

	books, err := s.repo.ListBooks(ctx, req.PerPage, req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountBooks(ctx)
	if err != nil {
		return nil, err
	}

	return &model.ListBooksResponse{
		Books:      toResponses(books),
		Page:       req.Page,
		PageSize:   req.PerPage,
		TotalCount: total,
	}, nil
}

func (s *BookService) CountBooks(ctx context.Context) (int64, error) {
	return s.repo.CountBooks(ctx)
}

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*model.BookResponse, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}

	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return book.ToResponse(), nil
}

func (s *BookService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.BookResponse, error) {
	exists, err := s.repo.AuthorExists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrAuthorNotFound
	}

	books, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return toResponses(books), nil
}

func (s *BookService) ListByCategory(ctx context.Context, category string) ([]*model.BookResponse, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, model.ErrInvalidCategory
	}

	books, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return toResponses(books), nil
}

// ============================================
// WRITES
// ============================================

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookResponse, error) {
	book, err := s.validatedBook(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		return nil, err
	}

	log.Info().Str("book_id", created.ID.String()).Str("author_id", created.AuthorID.String()).Msg("book created")
	return created.ToResponse(), nil
}

func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}

	book, err := s.validatedBook(ctx, req)
	if err != nil {
		return nil, err
	}
	book.ID = id

	updated, err := s.repo.UpdateBook(ctx, book)
	if err != nil {
		return nil, err
	}
	return updated.ToResponse(), nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrBookNotFound
	}

	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}

	log.Info().Str("book_id", id.String()).Msg("book deleted")
	return nil
}

func (s *BookService) validatedBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidBook, err)
	}

	exists, err := s.repo.AuthorExists(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrAuthorNotFound
	}

	return req.ToBook(), nil
}

// ============================================
// EXPORT
// ============================================

func (s *BookService) ExportBooksToExcel(ctx context.Context) (*excelize.File, int, error) {
	books, err := s.repo.ListAllForExport(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	f, err := buildBooksExcelFile(books)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build excel file: %w", err)
	}

	return f, len(books), nil
}

// buildBooksExcelFile writes the same columns the importer reads, so an
// export can be imported again.
func buildBooksExcelFile(books []model.BookWithAuthor) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	headers := []interface{}{
		"Title",
		"Authors",
		"Description",
		"Category",
		"Publisher",
		"Price Starting With ($)",
		"Publish Date (Month)",
		"Publish Date (Year)",
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &headers); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(exportSheetName, "A1", "H1", headerStyle)
	}

	for i, b := range books {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		var price, year interface{}
		if b.Price != nil {
			price = b.Price.StringFixed(2)
		}
		if b.PublishYear != nil {
			year = *b.PublishYear
		}

		row := []interface{}{
			b.Title,
			b.AuthorName,
			deref(b.Description),
			deref(b.Category),
			deref(b.Publisher),
			price,
			deref(b.PublishMonth),
			year,
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func toResponses(books []model.BookWithAuthor) []*model.BookResponse {
	out := make([]*model.BookResponse, 0, len(books))
	for i := range books {
		out = append(out, books[i].ToResponse())
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
