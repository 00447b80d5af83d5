package httpapi

import (
	"net/http"

	"github.com/orgball2608/vehicle-listing-feed/internal/feed"
	"github.com/orgball2608/vehicle-listing-feed/internal/ratelimit"
	"github.com/orgball2608/vehicle-listing-feed/internal/repositories/listing"
	"github.com/orgball2608/vehicle-listing-feed/internal/repositories/vehicle"
	"github.com/orgball2608/vehicle-listing-feed/pkg/config"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config      *config.Config
	Logger      logger.Logger
	Feed        feed.Service
	ListingRepo listing.Repository
	Vehicles    vehicle.Repository
}

// Server holds the API handlers.
type Server struct {
	feed     feed.Service
	listings listing.Repository
	vehicles vehicle.Repository
	limiter  ratelimit.Limiter
	logger   logger.Logger
}

func New(opts Opts) *Server {
	cfg := opts.Config.HTTP
	return &Server{
		feed:     opts.Feed,
		listings: opts.ListingRepo,
		vehicles: opts.Vehicles,
		limiter:  ratelimit.NewInMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitPer, cfg.RateLimitBurst),
		logger:   opts.Logger.WithComponent("HTTP"),
	}
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.healthz)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/social-listings", s.listSocialListings)
	api.HandleFunc("GET /api/social-listings/{id}", s.getSocialListing)
	api.HandleFunc("POST /api/social-listings/refresh", s.refreshSocialListings)

	api.HandleFunc("GET /api/vehicles", s.listVehicles)
	api.HandleFunc("POST /api/vehicles", s.createVehicle)
	api.HandleFunc("GET /api/vehicles/{id}", s.getVehicle)
	api.HandleFunc("PUT /api/vehicles/{id}", s.updateVehicle)
	api.HandleFunc("DELETE /api/vehicles/{id}", s.deleteVehicle)
	api.HandleFunc("PUT /api/vehicles/{id}/images", s.reorderVehicleImages)

	mux.Handle("/api/", s.rateLimited(api))

	return otelhttp.NewHandler(s.recoverer(s.requestLogger(mux)), "http.server")
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}
