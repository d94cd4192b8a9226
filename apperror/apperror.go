// Package apperror defines the error taxonomy of the analysis pipeline and
// its mapping to HTTP status codes.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

const rawExcerptLimit = 200

// ValidationError reports a malformed or missing client input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation creates a ValidationError for the given field
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ProviderError reports a failed call to the AI provider.
// Code is the upstream HTTP status when the provider returned one, 0 otherwise.
type ProviderError struct {
	Provider string
	Code     int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s request failed (status %d): %v", e.Provider, e.Code, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError reports provider output that is not valid JSON.
type ParseError struct {
	Raw string
	Err error
}

// NewParse creates a ParseError keeping a bounded excerpt of the raw text
func NewParse(raw string, err error) *ParseError {
	return &ParseError{Raw: excerpt(raw), Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("provider returned malformed JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaViolationError reports valid JSON that does not have the expected shape.
type SchemaViolationError struct {
	Problems []string
}

func (e *SchemaViolationError) Error() string {
	return "provider response does not match schema: " + strings.Join(e.Problems, "; ")
}

// StatusCode maps an error to the HTTP status reported to the client.
func StatusCode(err error) int {
	var validationErr *ValidationError
	var providerErr *ProviderError
	var parseErr *ParseError
	var schemaErr *SchemaViolationError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &providerErr):
		switch {
		case errors.Is(providerErr, context.DeadlineExceeded):
			return http.StatusGatewayTimeout
		case providerErr.Code == http.StatusTooManyRequests:
			return http.StatusServiceUnavailable
		default:
			return http.StatusBadGateway
		}
	case errors.As(err, &parseErr), errors.As(err, &schemaErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Kind returns a short label for metrics and logs.
func Kind(err error) string {
	var validationErr *ValidationError
	var providerErr *ProviderError
	var parseErr *ParseError
	var schemaErr *SchemaViolationError

	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &providerErr):
		return "provider"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &schemaErr):
		return "schema"
	default:
		return "internal"
	}
}

func excerpt(s string) string {
	if len(s) <= rawExcerptLimit {
		return s
	}
	cut := rawExcerptLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
