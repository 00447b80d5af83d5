package listing

import (
	"go.uber.org/fx"
)

var Module = fx.Module("listing_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)
