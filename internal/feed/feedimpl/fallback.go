package feedimpl

import (
	"time"

	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"github.com/orgball2608/vehicle-listing-feed/internal/extractor"
)

// Fallback is the static listing set shown while the social feed is
// unavailable. It links to the dealership pages instead of single posts.
func Fallback() []domain.Listing {
	created := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return []domain.Listing{
		{
			ID:          "fallback-1",
			Images:      []string{"/images/fallback/showroom-1.jpg", "/images/fallback/showroom-2.jpg"},
			Info:        "New imports arrive every week. Visit our showroom or follow us on Facebook for the latest arrivals.",
			Price:       extractor.PriceOnRequest,
			CreatedTime: created,
			Link:        "https://www.facebook.com/",
		},
		{
			ID:          "fallback-2",
			Images:      []string{"/images/fallback/import-service.jpg"},
			Info:        "Looking for a specific model? We import to order from Germany, Austria and Italy.",
			Price:       extractor.PriceOnRequest,
			CreatedTime: created,
			Link:        "https://www.instagram.com/",
		},
		{
			ID:          "fallback-3",
			Images:      []string{"/images/fallback/inspection.jpg"},
			Info:        "Every vehicle is inspected and comes with full documentation.",
			Price:       extractor.PriceOnRequest,
			CreatedTime: created,
			Link:        "https://www.facebook.com/",
		},
	}
}
