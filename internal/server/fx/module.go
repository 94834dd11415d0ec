package fx

import (
	"go.uber.org/fx"

	"baystate-scraper-runner/internal/server"
)

var ServerOptions = fx.Options(
	fx.Provide(server.NewHTTPServer),
	fx.Invoke(RegisterHTTPServerLifecycle),
)
