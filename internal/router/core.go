package router

import (
	"go.uber.org/fx"

	"github.com/go-chi/chi/v5"
)

// Handler is a route group that knows how to attach itself to the mux.
type Handler interface {
	RegisterRoute(r *chi.Mux)
}

// AsRoute annotates a handler constructor into the `group:"handlers"`
// value group collected by the mux builder.
func AsRoute(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Handler)),
		fx.ResultTags(`group:"handlers"`),
	)
}
