package httpapi

import (
	"fmt"
	"net/http"

	"github.com/orgball2608/vehicle-listing-feed/internal/feed"
	"github.com/orgball2608/vehicle-listing-feed/pkg/errors"
)

type refreshResponse struct {
	Sources []feed.SourceResult `json:"sources"`
	Error   *errorInfo          `json:"error,omitempty"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) listSocialListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.feed.Listings(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) getSocialListing(w http.ResponseWriter, r *http.Request) {
	l, err := s.listings.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l.ToDisplay())
}

// refreshSocialListings runs a refresh now. Sources that failed are listed
// in the body; the status is 502 when any source could not be fetched.
func (s *Server) refreshSocialListings(w http.ResponseWriter, r *http.Request) {
	res, err := s.feed.Refresh(r.Context())
	if err == nil {
		writeJSON(w, http.StatusOK, refreshResponse{Sources: res.Sources})
		return
	}

	if !errors.IsUpstreamFetch(err) {
		s.respondError(w, r, err)
		return
	}

	s.logger.Warn("Refresh finished with fetch errors", "error", err)
	writeJSON(w, http.StatusBadGateway, refreshResponse{
		Sources: res.Sources,
		Error: &errorInfo{
			Code:    errors.CodeUpstreamFetch,
			Message: fmt.Sprintf("%d of %d sources failed to refresh", failedSources(res.Sources), len(res.Sources)),
		},
	})
}

func failedSources(sources []feed.SourceResult) int {
	n := 0
	for _, src := range sources {
		if src.Error != "" {
			n++
		}
	}
	return n
}
