package client

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/accounts/internal/common"
)

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// APIError is a non-success response from the server. Fields is set for
// field-level validation failures.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
	kind    error
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (%d)", e.Message, e.Status)
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, strings.Join(parts, "; "))
}

func (e *APIError) Unwrap() error { return e.kind }

// envelope covers every error and message shape the server sends.
type envelope struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
	Data   string            `json:"data"`
	Token  string            `json:"token"`
}

func mapError(status int, env envelope) error {
	if status == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	e := &APIError{Status: status, Message: env.Error, Fields: env.Errors}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest:
		e.kind = common.ErrorValidation
		if len(e.Fields) > 0 {
			e.Message = common.ErrorValidation.Error()
		}
	case http.StatusForbidden:
		e.kind = common.ErrorNotVerified
	case http.StatusNotFound:
		e.kind = common.ErrorNotFound
	case http.StatusConflict:
		if env.Error == common.ErrorAlreadyVerified.Error() {
			e.kind = common.ErrorAlreadyVerified
		} else {
			e.kind = common.ErrorAlreadyExists
		}
	case http.StatusBadGateway:
		e.kind = common.ErrorDelivery
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		e.kind = ErrUnavailable
	default:
		e.kind = common.ErrorInternal
	}
	return e
}
