package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"library-catalog/internal/domains/book/model"
)

// ServiceInterface defines the book catalog operations
type ServiceInterface interface {
	ListBooks(ctx context.Context, req model.ListBooksRequest) (*model.ListBooksResponse, error)
	CountBooks(ctx context.Context) (int64, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.BookResponse, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.BookResponse, error)
	ListByCategory(ctx context.Context, category string) ([]*model.BookResponse, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookResponse, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	// ExportBooksToExcel returns a workbook with every book and the row count
	ExportBooksToExcel(ctx context.Context) (*excelize.File, int, error)
}

// BulkImportServiceInterface runs imports synchronously or through the worker
type BulkImportServiceInterface interface {
	ImportFile(ctx context.Context, fileName string, r io.Reader) (*model.ImportResult, error)
	PreviewFile(ctx context.Context, fileName string, r io.Reader) (*model.ImportPreview, error)
	EnqueueImport(ctx context.Context, userID *uuid.UUID, fileName string, data []byte) (*model.ImportJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*model.ImportJob, error)
	// ProcessJob is called by the worker for shared.TypeImportBooks
	ProcessJob(ctx context.Context, jobID uuid.UUID) (*model.ImportResult, error)
	// CleanupUploads removes uploaded files older than the retention
	CleanupUploads(ctx context.Context) (int, error)
}

// ObjectStorage keeps uploaded import files; satisfied by *storage.MinIOStorage
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	ListOlderThan(ctx context.Context, prefix string, cutoff time.Time) ([]string, error)
	RemoveObjects(ctx context.Context, keys []string) error
}

// TaskEnqueuer publishes background tasks; satisfied by *queue.Client
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}) error
}

// CacheInvalidator is implemented by repositories whose reads an import changes
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}
