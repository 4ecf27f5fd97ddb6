package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authorModel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/importer"
	bookService "library-catalog/internal/domains/book/service"
	"library-catalog/internal/shared/middleware"
	"library-catalog/internal/shared/response"
)

const modeAsync = "async"

type BulkImportHandler struct {
	service     bookService.BulkImportServiceInterface
	maxFileSize int64
}

// NewBulkImportHandler creates the import handler; uploads above maxFileSize bytes are rejected
func NewBulkImportHandler(service bookService.BulkImportServiceInterface, maxFileSize int64) *BulkImportHandler {
	return &BulkImportHandler{
		service:     service,
		maxFileSize: maxFileSize,
	}
}

// ImportBooks - POST /v1/import/books-csv[?mode=async]
// Admin only. Sync mode answers with the counts; async mode answers 202 with the job.
func (h *BulkImportHandler) ImportBooks(c *gin.Context) {
	header, ok := h.uploadedFile(c)
	if !ok {
		return
	}

	log.Info().
		Str("file_name", header.Filename).
		Int64("file_size", header.Size).
		Str("mode", c.DefaultQuery("mode", "sync")).
		Msg("[BulkImportHandler] Received import request")

	if c.Query("mode") == modeAsync {
		h.enqueue(c, header)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "cannot read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.service.ImportFile(c.Request.Context(), header.Filename, file)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Import completed", result)
}

// PreviewImport - POST /v1/import/books-csv/preview
func (h *BulkImportHandler) PreviewImport(c *gin.Context) {
	header, ok := h.uploadedFile(c)
	if !ok {
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "cannot read uploaded file")
		return
	}
	defer file.Close()

	preview, err := h.service.PreviewFile(c.Request.Context(), header.Filename, file)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Import preview", preview)
}

// GetJob - GET /v1/import/jobs/:id
func (h *BulkImportHandler) GetJob(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), id)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get import job successfully", job)
}

func (h *BulkImportHandler) enqueue(c *gin.Context, header *multipart.FileHeader) {
	file, err := header.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "cannot read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request", "cannot read uploaded file")
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	job, err := h.service.EnqueueImport(c.Request.Context(), userID, header.Filename, data)
	if err != nil {
		handleImportError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, "Import job accepted", gin.H{
		"job_id": job.ID,
		"status": job.Status,
	})
}

func (h *BulkImportHandler) uploadedFile(c *gin.Context) (*multipart.FileHeader, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(c, http.StatusBadRequest, "INPUT_MISSING", "file is required (multipart/form-data)", nil)
		return nil, false
	}
	if h.maxFileSize > 0 && header.Size > h.maxFileSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "File too large",
			fmt.Sprintf("maximum upload size is %d bytes", h.maxFileSize))
		return nil, false
	}
	return header, true
}

// handleImportError maps importer and domain errors to HTTP responses. Store
// failures keep their message since authors created before the failure stay.
func handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, importer.ErrInputMissing):
		response.ErrorWithCode(c, http.StatusBadRequest, "INPUT_MISSING", err.Error(), nil)
	case errors.Is(err, importer.ErrReadInput):
		response.ErrorWithCode(c, http.StatusBadRequest, "READ_INPUT_FAILED", err.Error(), nil)
	case errors.Is(err, authorModel.ErrDuplicateName):
		response.ErrorWithCode(c, http.StatusConflict, "CONCURRENT_IMPORT", err.Error(), nil)
	case errors.Is(err, importer.ErrStoreFailure):
		log.Error().Err(err).Msg("import store failure")
		response.ErrorWithCode(c, http.StatusInternalServerError, "STORE_FAILURE", err.Error(), nil)
	default:
		handleError(c, err)
	}
}
