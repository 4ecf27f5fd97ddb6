package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxTitleLength = 500
	DefaultPage    = 1
	DefaultPerPage = 100
	MaxPerPage     = 500
)

// Book always references exactly one author. Optional catalog fields are nil
// when the source value was absent or unparsable.
type Book struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	Title        string           `json:"title" db:"title"`
	Description  *string          `json:"description" db:"description"`
	Category     *string          `json:"category" db:"category"`
	Publisher    *string          `json:"publisher" db:"publisher"`
	Price        *decimal.Decimal `json:"price" db:"price"`
	PublishMonth *string          `json:"publish_month" db:"publish_month"`
	PublishYear  *int             `json:"publish_year" db:"publish_year"`
	AuthorID     uuid.UUID        `json:"author_id" db:"author_id"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

type BookResponse struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Description  *string          `json:"description,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Publisher    *string          `json:"publisher,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	PublishMonth *string          `json:"publish_month,omitempty"`
	PublishYear  *int             `json:"publish_year,omitempty"`
	AuthorID     uuid.UUID        `json:"author_id"`
	AuthorName   string           `json:"author_name,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// BookWithAuthor is a list row joined with its author's name
type BookWithAuthor struct {
	Book
	AuthorName string `json:"author_name" db:"author_name"`
}

func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		Category:     b.Category,
		Publisher:    b.Publisher,
		Price:        b.Price,
		PublishMonth: b.PublishMonth,
		PublishYear:  b.PublishYear,
		AuthorID:     b.AuthorID,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (b *BookWithAuthor) ToResponse() *BookResponse {
	resp := b.Book.ToResponse()
	resp.AuthorName = b.AuthorName
	return resp
}
