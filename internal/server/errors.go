package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-advisor/internal/analysis"
	"github.com/jonathan/career-advisor/internal/profile"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrAnalysisNotFound indicates no current analysis is stored for a student
type ErrAnalysisNotFound struct {
	StudentID string
}

func (e *ErrAnalysisNotFound) Error() string {
	return fmt.Sprintf("no current analysis for student: %s", e.StudentID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var reqErr *ErrValidation
	var intakeErr *profile.ValidationError
	var missing *ErrAnalysisNotFound
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &reqErr), errors.As(err, &intakeErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &missing), errors.Is(err, analysis.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
