// Package ws mounts the event hub's WebSocket endpoint.
package ws

import (
	"github.com/go-chi/chi/v5"

	"baystate-scraper-runner/internal/events"
)

type Handler struct {
	hub *events.Hub
}

func NewHandler(hub *events.Hub) *Handler { return &Handler{hub: hub} }

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/ws", h.hub.Handle)
}
