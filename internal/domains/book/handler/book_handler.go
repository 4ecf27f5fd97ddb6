package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/service"
	"library-catalog/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler - book HTTP handler
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /v1/books?page=1&page_size=100
func (h *Handler) ListBooks(c *gin.Context) {
	req := model.ListBooksRequest{
		Page:    queryInt(c, "page", model.DefaultPage),
		PerPage: queryInt(c, "page_size", model.DefaultPerPage),
	}

	data, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get books successfully", data)
}

// CountBooks - GET /v1/books/count
func (h *Handler) CountBooks(c *gin.Context) {
	total, err := h.service.CountBooks(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Count books successfully", gin.H{"total": total})
}

// GetBook - GET /v1/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get book successfully", book)
}

// ListByAuthor - GET /v1/books/by-author/:authorId and GET /v1/authors/:id/books
func (h *Handler) ListByAuthor(c *gin.Context) {
	param := "authorId"
	if c.Param(param) == "" {
		param = "id"
	}
	authorID, ok := parseUUIDParam(c, param)
	if !ok {
		return
	}

	books, err := h.service.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get books successfully", books)
}

// ListByCategory - GET /v1/books/by-category?category=fiction
func (h *Handler) ListByCategory(c *gin.Context) {
	books, err := h.service.ListByCategory(c.Request.Context(), c.Query("category"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get books successfully", books)
}

// CreateBook - POST /v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// UpdateBook - PUT /v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook - DELETE /v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}

// ExportBooks - GET /v1/books/export
func (h *Handler) ExportBooks(c *gin.Context) {
	f, count, err := h.service.ExportBooksToExcel(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close export workbook")
		}
	}()

	fileName := fmt.Sprintf("books_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to write export workbook")
		return
	}

	log.Info().Int("books", count).Str("file_name", fileName).Msg("Books exported")
}

// handleError maps book domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	status, code := model.ToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	response.ErrorWithCode(c, status, code, message, nil)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid "+name, "must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
