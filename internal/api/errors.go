package api

import (
	"errors"
	"net/http"

	"orgdesk/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var denied *domain.PermissionDeniedError
	var validation *domain.ValidationError
	var precondition *domain.PreconditionError
	var dependency *domain.DependencyError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &denied):
		return http.StatusForbidden
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &precondition):
		return http.StatusConflict
	case errors.As(err, &dependency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
