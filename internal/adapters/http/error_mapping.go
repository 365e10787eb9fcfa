package httpadapter

import (
	"net/http"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
