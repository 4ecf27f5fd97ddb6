package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportResult is returned once per completed import run. Skipped rows are
// logged, not counted here.
type ImportResult struct {
	AuthorsAdded int `json:"authors_added"`
	BooksAdded   int `json:"books_added"`
}

// ImportPreview is a dry run over an import file: nothing is written.
type ImportPreview struct {
	TotalRows       int            `json:"total_rows"`
	Candidates      int            `json:"candidates"`
	Skipped         map[string]int `json:"skipped"`
	DistinctAuthors int            `json:"distinct_authors"`
	NewAuthors      []string       `json:"new_authors"`
}

// ========================================
// BULK IMPORT JOB MODEL (DB)
// ========================================

// ImportJob tracks an asynchronous import. The uploaded file lives in
// object storage under ObjectKey until the cleanup job removes it.
type ImportJob struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	FileName     string     `json:"file_name" db:"file_name"`
	ObjectKey    string     `json:"object_key" db:"object_key"`
	Status       string     `json:"status" db:"status"`
	AuthorsAdded int        `json:"authors_added" db:"authors_added"`
	BooksAdded   int        `json:"books_added" db:"books_added"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	StartedAt    *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Job status constants
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// IsFinished reports whether the job reached a terminal status
func (j *ImportJob) IsFinished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// ImportBooksPayload is the asynq payload for shared.TypeImportBooks
type ImportBooksPayload struct {
	JobID string `json:"job_id"`
}

// CleanupUploadsPayload is the asynq payload for shared.TypeCleanupImportUploads
type CleanupUploadsPayload struct{}
