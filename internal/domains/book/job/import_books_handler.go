package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/domains/book/importer"
	"library-catalog/internal/domains/book/model"
	bookService "library-catalog/internal/domains/book/service"
)

// ImportBooksHandler runs queued import jobs
type ImportBooksHandler struct {
	importService bookService.BulkImportServiceInterface
}

func NewImportBooksHandler(importService bookService.BulkImportServiceInterface) *ImportBooksHandler {
	return &ImportBooksHandler{
		importService: importService,
	}
}

// ProcessTask imports the uploaded file referenced by the job. A held lock or
// a storage hiccup is retried by asynq; a bad file fails the job for good.
func (h *ImportBooksHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.ImportBooksPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ImportBooks payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	jobID, err := uuid.Parse(payload.JobID)
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", payload.JobID, asynq.SkipRetry)
	}

	log.Info().Str("job_id", payload.JobID).Msg("Processing import job")

	result, err := h.importService.ProcessJob(ctx, jobID)
	if err != nil {
		log.Error().
			Err(err).
			Str("job_id", payload.JobID).
			Msg("Import job failed")
		if permanent(err) {
			return fmt.Errorf("process import job: %w: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("process import job: %w", err)
	}

	log.Info().
		Str("job_id", payload.JobID).
		Int("authors_added", result.AuthorsAdded).
		Int("books_added", result.BooksAdded).
		Msg("Import job processed successfully")

	return nil
}

func permanent(err error) bool {
	for _, target := range []error{
		model.ErrImportJobNotFound,
		model.ErrUnsupportedFile,
		importer.ErrInputMissing,
		importer.ErrReadInput,
		importer.ErrStoreFailure,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
