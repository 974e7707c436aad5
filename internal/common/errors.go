// Package common defines shared constants and sentinel errors used across
// the account service and its CLI client. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Verification lifecycle errors.
	ErrorNotVerified      = errors.New("account not verified")
	ErrorAlreadyVerified  = errors.New("account already verified")
	ErrorInvalidCode      = errors.New("invalid or expired verification code")
	ErrorDelivery         = errors.New("verification email could not be delivered")
	ErrorPasswordMismatch = errors.New("password mismatch")
	ErrorPasswordTooShort = errors.New("password too short")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationErrors collects field-level validation messages keyed by the
// request field name. It matches ErrorValidation via errors.Is.
type ValidationErrors map[string]string

// Add records msg for field unless the field already has a message.
func (v ValidationErrors) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// Err returns v as an error, or nil when no field failed.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrorValidation }
