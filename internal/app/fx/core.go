package fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"baystate-scraper-runner/config"
	"baystate-scraper-runner/internal/events"
	"baystate-scraper-runner/internal/history"
	"baystate-scraper-runner/internal/installer"
	"baystate-scraper-runner/internal/keychain"
	"baystate-scraper-runner/internal/logs"
	"baystate-scraper-runner/internal/scraper"
	"baystate-scraper-runner/internal/settings"
)

var CoreAppOptions = fx.Options(
	fx.Provide(
		config.NewViper,
		config.NewConfig,
		logs.NewLogger,
		logs.NewSugaredLogger,
		keychain.NewAdapter,
		events.NewHub,
		history.NewStore,
		newSettingsStore,
		newInstallerSupervisor,
		newScraperClient,
	),
	fx.Invoke(logs.RegisterLifecycle),
)

func newSettingsStore(cfg config.Config) *settings.Store {
	return settings.NewStore(cfg.DataDir)
}

func newInstallerSupervisor(store *settings.Store, logger *zap.SugaredLogger, cfg config.Config) *installer.Supervisor {
	return installer.NewSupervisor(store, logger, cfg.PlaywrightCmd)
}

func newScraperClient(cfg config.Config) *scraper.Client {
	return scraper.NewClient(cfg.SidecarCmd, cfg.SidecarDir)
}
