package services

import (
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is counted in characters.
const MinPasswordLength = 8

var validate = validator.New()

// RegistrationInput is what a client submits to create an account. Username
// is accepted for compatibility and always replaced by Email.
type RegistrationInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in RegistrationInput) normalized() RegistrationInput {
	in.Email = normalizeEmail(in.Email)
	in.Username = in.Email
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	return in
}

// Validate checks every field and reports all failures at once as
// common.ValidationErrors.
func (in RegistrationInput) Validate() error {
	errs := common.ValidationErrors{}

	switch {
	case in.Email == "":
		errs.Add("email", "email is required")
	case validate.Var(in.Email, "email") != nil:
		errs.Add("email", "email is invalid")
	}
	if in.FirstName == "" {
		errs.Add("first_name", "first name is required")
	}
	if in.LastName == "" {
		errs.Add("last_name", "last name is required")
	}

	switch {
	case in.Password == "":
		errs.Add("password", "password is required")
	case in.Password != in.ConfirmPassword:
		errs.Add("password", common.ErrorPasswordMismatch.Error())
	case utf8.RuneCountInString(in.Password) < MinPasswordLength:
		errs.Add("password", common.ErrorPasswordTooShort.Error())
	case len(in.Password) > auth.MaxPasswordBytes:
		errs.Add("password", "password too long")
	}

	return errs.Err()
}
