package model

import (
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt input limit
	MaxFullNameLength = 100
)

// RegisterRequest - POST /v1/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat, validation.RuneLength(0, 255)),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(MinPasswordLength, MaxPasswordLength),
			validation.By(passwordStrength),
		),
		validation.Field(&r.FullName, validation.Required, validation.RuneLength(1, MaxFullNameLength)),
	)
}

// Normalize trims input and lower-cases the email
func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
}

// LoginRequest - POST /v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"` // seconds
	User        *UserDTO `json:"user"`
}

// passwordStrength requires one digit, one upper-case and one lower-case letter
func passwordStrength(value interface{}) error {
	s, _ := value.(string)
	var digit, upper, lower bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	if !digit || !upper || !lower {
		return validation.NewError("validation_password_strength",
			"must contain at least one digit, one upper-case and one lower-case letter")
	}
	return nil
}
