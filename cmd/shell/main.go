package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	dbfx "baystate-scraper-runner/db/fx"
	chromiumfx "baystate-scraper-runner/internal/app/chromium/fx"
	connectionfx "baystate-scraper-runner/internal/app/connection/fx"
	credentialsfx "baystate-scraper-runner/internal/app/credentials/fx"
	appfx "baystate-scraper-runner/internal/app/fx"
	healthfx "baystate-scraper-runner/internal/app/health/fx"
	runsfx "baystate-scraper-runner/internal/app/runs/fx"
	scrapersfx "baystate-scraper-runner/internal/app/scrapers/fx"
	setupfx "baystate-scraper-runner/internal/app/setup/fx"
	settingsapifx "baystate-scraper-runner/internal/app/settingsapi/fx"
	wsfx "baystate-scraper-runner/internal/app/ws/fx"
	routerfx "baystate-scraper-runner/internal/router/fx"
	serverfx "baystate-scraper-runner/internal/server/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		appfx.CoreAppOptions,
		dbfx.Module,
		routerfx.CoreRouterOptions,
		serverfx.ServerOptions,
		healthfx.Module,
		setupfx.Module,
		credentialsfx.Module,
		settingsapifx.Module,
		connectionfx.Module,
		chromiumfx.Module,
		scrapersfx.Module,
		runsfx.Module,
		wsfx.Module,
	)

	app.Run()
}
