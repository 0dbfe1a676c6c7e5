package auth

import (
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"

	"roomhub/errors"
)

var validate = validator.New()

// SignupRequest carries the fields a new account needs. Bounds mirror
// the signup rules: well-formed email, password of at least 8
// characters with mixed character classes, non-empty names.
type SignupRequest struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8,max=72"`
	FirstName string `validate:"required,min=1,max=50"`
	LastName  string `validate:"required,min=1,max=50"`
}

func ValidateSignup(req SignupRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
