package fx

import (
	"go.uber.org/fx"

	"baystate-scraper-runner/internal/app/health"
	"baystate-scraper-runner/internal/router"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(health.NewHandler)),
)
