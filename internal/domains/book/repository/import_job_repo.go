package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-catalog/internal/domains/book/model"
)

type importJobRepository struct {
	pool *pgxpool.Pool
}

// NewImportJobRepository creates the import_jobs repository
func NewImportJobRepository(pool *pgxpool.Pool) ImportJobRepository {
	return &importJobRepository{pool: pool}
}

// Create inserts a pending job
func (r *importJobRepository) Create(ctx context.Context, job *model.ImportJob) error {
	query := `
        INSERT INTO import_jobs (
            id, user_id, file_name, object_key, status, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = model.JobStatusPending
	}

	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.UserID,
		job.FileName,
		job.ObjectKey,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}

	return nil
}

func (r *importJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ImportJob, error) {
	query := `
        SELECT id, user_id, file_name, object_key, status,
               authors_added, books_added, error_message,
               started_at, completed_at, created_at, updated_at
        FROM import_jobs
        WHERE id = $1
    `

	var job model.ImportJob
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.UserID,
		&job.FileName,
		&job.ObjectKey,
		&job.Status,
		&job.AuthorsAdded,
		&job.BooksAdded,
		&job.ErrorMessage,
		&job.StartedAt,
		&job.CompletedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrImportJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import job: %w", err)
	}

	return &job, nil
}

func (r *importJobRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
        UPDATE import_jobs
        SET status = $1,
            started_at = COALESCE(started_at, NOW()),
            updated_at = NOW()
        WHERE id = $2
    `
	return r.exec(ctx, query, model.JobStatusProcessing, id)
}

func (r *importJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, result *model.ImportResult) error {
	query := `
        UPDATE import_jobs
        SET status = $1,
            authors_added = $2,
            books_added = $3,
            error_message = NULL,
            completed_at = NOW(),
            updated_at = NOW()
        WHERE id = $4
    `
	return r.exec(ctx, query, model.JobStatusCompleted, result.AuthorsAdded, result.BooksAdded, id)
}

func (r *importJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	query := `
        UPDATE import_jobs
        SET status = $1,
            error_message = $2,
            completed_at = NOW(),
            updated_at = NOW()
        WHERE id = $3
    `
	return r.exec(ctx, query, model.JobStatusFailed, message, id)
}

func (r *importJobRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update import job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrImportJobNotFound
	}
	return nil
}
