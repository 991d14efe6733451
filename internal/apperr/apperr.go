// Package apperr defines the structured error types shared by the
// dashboard pipelines. Every error the HTTP layer can see is one of
// these; the ErrorHandler maps the type to a status code.
package apperr

import (
	"fmt"
	"net/http"
	"strings"
)

// Type classifies an application error.
type Type string

const (
	// TypeConfig means a required credential, URL, or key is missing.
	TypeConfig Type = "config"
	// TypeValidation means a request parameter is missing or malformed.
	TypeValidation Type = "validation"
	// TypeUpstream means an external dependency returned a non-success status.
	TypeUpstream Type = "upstream"
	// TypeUpstreamData means the upstream responded successfully but the
	// payload is missing data needed to produce a result.
	TypeUpstreamData Type = "upstream_data"
	// TypeParse means a payload fragment could not be parsed. Parse errors
	// are swallowed at the aggregation boundary and never reach a client.
	TypeParse Type = "parse"
)

// Error is a structured application error.
type Error struct {
	Type    Type
	Message string
	// UpstreamStatus carries the HTTP status returned by an external
	// dependency, when Type is TypeUpstream.
	UpstreamStatus int
	Cause          error
}

func (e *Error) Error() string {
	parts := []string{string(e.Type), e.Message}
	if e.UpstreamStatus != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.UpstreamStatus))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Config creates a configuration error.
func Config(msg string) *Error {
	return &Error{Type: TypeConfig, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Type: TypeValidation, Message: msg}
}

// Upstream creates an error for a non-success upstream status.
func Upstream(dependency string, status int) *Error {
	return &Error{
		Type:           TypeUpstream,
		Message:        fmt.Sprintf("%s returned an error", dependency),
		UpstreamStatus: status,
	}
}

// UpstreamData creates an error for a successful response with an
// unusable payload.
func UpstreamData(msg string) *Error {
	return &Error{Type: TypeUpstreamData, Message: msg}
}

// Parse creates an internal parse error.
func Parse(msg string, cause error) *Error {
	return &Error{Type: TypeParse, Message: msg, Cause: cause}
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t Type) bool {
	appErr, ok := err.(*Error)
	return ok && appErr.Type == t
}

// HTTPStatus maps an error to the status code the API should report.
// Anything that is not an *Error is an internal failure.
func HTTPStatus(err error) int {
	appErr, ok := err.(*Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case TypeConfig, TypeValidation:
		return http.StatusBadRequest
	case TypeUpstream, TypeUpstreamData:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
