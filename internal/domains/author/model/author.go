package model

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Validation limits
const (
	MaxNameLength = 255
	MinNameLength = 1
)

// Author is identified by its exact name string: two names that differ only
// in case or whitespace are different authors.
type Author struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidateName checks a candidate author name against the storage limits.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinNameLength {
		return ErrInvalidName
	}
	if n > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts Author to AuthorResponse
func (a *Author) ToResponse() *AuthorResponse {
	return &AuthorResponse{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AuthorFilter holds list parameters for GET /authors
type AuthorFilter struct {
	Search string
	Limit  int
	Offset int
}
