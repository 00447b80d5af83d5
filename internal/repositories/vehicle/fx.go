package vehicle

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/vehicle-listing-feed/pkg/config"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
	"go.uber.org/fx"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Pool   *pgxpool.Pool
}

// New picks the store named by INVENTORY_STORE.
func New(opts Opts) (Repository, error) {
	seedPath := opts.Config.Inventory.SeedPath

	switch opts.Config.Inventory.Store {
	case StoreMemory:
		return NewMemory(seedPath, opts.Logger), nil
	case StorePostgres, "":
		return NewPgx(opts.Pool, seedPath, opts.Logger), nil
	default:
		return nil, fmt.Errorf("unknown inventory store %q", opts.Config.Inventory.Store)
	}
}

var Module = fx.Module("vehicle_repository",
	fx.Provide(New),
)
