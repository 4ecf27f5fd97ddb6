package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBookRequest - POST /v1/books
type CreateBookRequest struct {
	Title        string           `json:"title"`
	Description  *string          `json:"description,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Publisher    *string          `json:"publisher,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	PublishMonth *string          `json:"publish_month,omitempty"`
	PublishYear  *int             `json:"publish_year,omitempty"`
	AuthorID     uuid.UUID        `json:"author_id"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, MaxTitleLength),
		),
		validation.Field(&r.AuthorID,
			validation.By(requiredUUID("author_id is required")),
		),
		validation.Field(&r.Price, validation.By(nonNegativePrice)),
		validation.Field(&r.PublishYear, validation.When(r.PublishYear != nil, validation.Min(0))),
	)
}

// ToBook builds a Book from the request; the ID is assigned by the store.
func (r *CreateBookRequest) ToBook() *Book {
	return &Book{
		Title:        strings.TrimSpace(r.Title),
		Description:  trimOptional(r.Description),
		Category:     trimOptional(r.Category),
		Publisher:    trimOptional(r.Publisher),
		Price:        r.Price,
		PublishMonth: trimOptional(r.PublishMonth),
		PublishYear:  r.PublishYear,
		AuthorID:     r.AuthorID,
	}
}

// UpdateBookRequest - PUT /v1/books/:id, full replacement
type UpdateBookRequest = CreateBookRequest

type ListBooksRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"page_size"`
}

// Normalize applies defaults and bounds
func (r *ListBooksRequest) Normalize() {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.PerPage < 1 {
		r.PerPage = DefaultPerPage
	}
	if r.PerPage > MaxPerPage {
		r.PerPage = MaxPerPage
	}
}

func (r *ListBooksRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

type ListBooksResponse struct {
	Books      []*BookResponse `json:"books"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalCount int64           `json:"total_count"`
}

func requiredUUID(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		id, _ := value.(uuid.UUID)
		if id == uuid.Nil {
			return validation.NewError("validation_required", msg)
		}
		return nil
	}
}

func nonNegativePrice(value interface{}) error {
	price, _ := value.(*decimal.Decimal)
	if price != nil && price.IsNegative() {
		return validation.NewError("validation_price", "price must not be negative")
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
