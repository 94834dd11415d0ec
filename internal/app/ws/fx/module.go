package fx

import (
	"go.uber.org/fx"

	"baystate-scraper-runner/internal/app/ws"
	"baystate-scraper-runner/internal/router"
)

var Module = fx.Options(
	fx.Provide(router.AsRoute(ws.NewHandler)),
)
