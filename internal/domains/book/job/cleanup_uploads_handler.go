package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	bookService "library-catalog/internal/domains/book/service"
)

// CleanupUploadsHandler removes import uploads past their retention
type CleanupUploadsHandler struct {
	importService bookService.BulkImportServiceInterface
}

func NewCleanupUploadsHandler(importService bookService.BulkImportServiceInterface) *CleanupUploadsHandler {
	return &CleanupUploadsHandler{importService: importService}
}

func (h *CleanupUploadsHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	removed, err := h.importService.CleanupUploads(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to clean up import uploads")
		return fmt.Errorf("cleanup uploads: %w", err)
	}

	log.Info().Int("removed", removed).Msg("Import upload cleanup finished")
	return nil
}
