// Package apierror provides the error taxonomy shared by services and the
// standardized response envelopes returned to clients. All errors returned to
// clients go through this package to ensure consistency and to prevent leaking
// internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a business error. Services report kinds; the HTTP layer owns
// the translation to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
)

// Error is a typed business error. Msg is safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
	err  error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.err }

// NotFound reports an absent (or hidden-by-policy) entity.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Conflict reports an illegal state transition, a lost race or an exhausted resource.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Validation reports malformed or business-invalid input.
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// Internal wraps an unexpected failure. The original error is preserved for
// logging but never serialized to the client.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Msg: "erro interno do servidor", err: err}
}

// KindOf extracts the kind from any error; non-typed errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error kind to the status code the API layer responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "erro de validação", Fields: fields}
}
