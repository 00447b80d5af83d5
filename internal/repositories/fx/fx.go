package fx

import (
	"github.com/orgball2608/vehicle-listing-feed/internal/repositories/listing"
	"github.com/orgball2608/vehicle-listing-feed/internal/repositories/vehicle"
	"go.uber.org/fx"
)

var Module = fx.Options(
	listing.Module,
	vehicle.Module,
)
