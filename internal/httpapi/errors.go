package httpapi

import (
	"net/http"

	"github.com/orgball2608/vehicle-listing-feed/pkg/errors"
)

const (
	codeInternal    = "INTERNAL_ERROR"
	codeRateLimited = "RATE_LIMITED"
	codeBadRequest  = "BAD_REQUEST"
)

// respondError maps domain errors to HTTP statuses. Unknown errors are
// logged and hidden behind a generic 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.IsNotFound(err):
		writeError(w, http.StatusNotFound, errors.CodeNotFound, errors.GetMessage(err))
	case errors.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, errors.CodeInvalidInput, errors.GetMessage(err))
	case errors.IsUpstreamFetch(err):
		s.logger.Warn("Upstream fetch failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, errors.CodeUpstreamFetch, errors.GetMessage(err))
	case errors.IsServiceUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, errors.GetCode(err), errors.GetMessage(err))
	default:
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
