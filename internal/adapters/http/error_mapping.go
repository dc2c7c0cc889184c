package httpadapter

import (
	"net/http"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrNoFiles), domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrInvalidTransition), domain.IsKind(err, domain.ErrConflict):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrInfected):
		return http.StatusUnprocessableEntity
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the client-facing text for err.
func errorMessage(err error, status int) string {
	switch {
	case domain.IsKind(err, domain.ErrNoFiles):
		return domain.NoFilesMessage
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		return "internal error"
	default:
		return err.Error()
	}
}
