// Package server provides the HTTP REST API for resume scoring.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/pipeline"
)

// ErrStorageUnavailable is returned by report endpoints when no database is configured
var ErrStorageUnavailable = errors.New("report storage is not configured")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unsupportedErr *ingestion.UnsupportedTypeError
		extractionErr  *ingestion.ExtractionError
		notFoundErr    *db.ErrReportNotFound
		tooLargeErr    *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.Is(err, pipeline.ErrNoInput):
		return http.StatusBadRequest
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
