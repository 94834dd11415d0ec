package fx

import (
	"go.uber.org/fx"

	"baystate-scraper-runner/db"
)

var Module = fx.Module(
	"history-db",
	fx.Provide(db.NewSQLiteDB),
)
