package fx

import (
	"go.uber.org/fx"

	"baystate-scraper-runner/internal/app/credentials"
	"baystate-scraper-runner/internal/router"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(credentials.NewHandler)),
)
