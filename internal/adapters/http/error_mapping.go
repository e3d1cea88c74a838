package httpadapter

import (
	"net/http"

	"github.com/curamai/sitesearch/internal/core/domain"
)

const queryRequiredMessage = "Query is required"

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrEmptyQuery), domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrTemporary), domain.IsKind(err, domain.ErrUpstream):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides internal detail from 5xx responses.
func errorMessage(err error) string {
	switch mapErrorToHTTPStatus(err) {
	case http.StatusBadRequest:
		if domain.IsKind(err, domain.ErrEmptyQuery) {
			return queryRequiredMessage
		}
		return err.Error()
	case http.StatusServiceUnavailable:
		return "search is temporarily unavailable"
	case http.StatusUnauthorized:
		return "unauthorized"
	default:
		return "internal error"
	}
}
