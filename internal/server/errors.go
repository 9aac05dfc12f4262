package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/syllabus-auditor/internal/ingestion"
	"github.com/jonathan/syllabus-auditor/internal/oracle"
	"github.com/jonathan/syllabus-auditor/internal/schemas"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing resource.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates a missing or invalid bearer token.
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "missing or invalid authorization"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Collaborator failures surface as 502: the request was fine, the model
// boundary was not.
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		notFound    *ErrNotFound
		unauth      *ErrUnauthorized
		badUpload   *ingestion.UnsupportedFileError
		apiCall     *oracle.APICallError
		badResponse *oracle.ParseError
		badSchema   *schemas.ValidationError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &badUpload):
		return http.StatusBadRequest
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &apiCall), errors.As(err, &badResponse), errors.As(err, &badSchema):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
