package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateAuthorRequest - POST /v1/authors
type CreateAuthorRequest struct {
	Name string `json:"name"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(MinNameLength, MaxNameLength).Error("name must be 1-255 characters"),
		),
	)
}

// Normalize trims surrounding whitespace; interior spacing is part of the identity.
func (r *CreateAuthorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateAuthorRequest - PUT /v1/authors/:id
type UpdateAuthorRequest struct {
	Name string `json:"name"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(MinNameLength, MaxNameLength).Error("name must be 1-255 characters"),
		),
	)
}

func (r *UpdateAuthorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type ListAuthorsResponse struct {
	Authors []*AuthorResponse `json:"authors"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}
