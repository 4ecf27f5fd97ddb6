package main

import (
	"github.com/hibiken/asynq"

	bookJob "library-catalog/internal/domains/book/job"
	"library-catalog/internal/shared"
	"library-catalog/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	importBooks    *bookJob.ImportBooksHandler
	cleanupUploads *bookJob.CleanupUploadsHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		importBooks:    c.ImportBooksJob,
		cleanupUploads: c.CleanupUploadsJob,
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeImportBooks, h.importBooks.ProcessTask)
	mux.HandleFunc(shared.TypeCleanupImportUploads, h.cleanupUploads.ProcessTask)
}
