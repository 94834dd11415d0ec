// Package chromium exposes installer control to the GUI. The install runs
// asynchronously; progress reaches the front end as "chromium-progress"
// notifications over the event hub.
package chromium

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/events"
	"baystate-scraper-runner/internal/installer"
	"baystate-scraper-runner/internal/pkg/render"
)

type Handler struct {
	sup    *installer.Supervisor
	hub    *events.Hub
	logger *zap.SugaredLogger
}

func NewHandler(sup *installer.Supervisor, hub *events.Hub, logger *zap.SugaredLogger) *Handler {
	return &Handler{sup: sup, hub: hub, logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/chromium/install", h.Install)
	r.Get("/v1/chromium/installed", h.Installed)
}

func (h *Handler) Install(w http.ResponseWriter, r *http.Request) {
	if h.sup.Running() {
		render.ChiErr(w, http.StatusConflict, installer.ErrAlreadyRunning.Error())
		return
	}

	go func() {
		err := h.sup.Install(func(p installer.Progress) {
			h.hub.Publish(installer.EventName, p)
		})
		if errors.Is(err, installer.ErrAlreadyRunning) {
			return
		}
		if err != nil {
			h.logger.Errorw("chromium_install_failed", "err", err)
			return
		}
		h.logger.Infow("chromium_install_complete")
	}()

	render.ChiJSON(w, http.StatusAccepted, map[string]bool{"started": true})
}

func (h *Handler) Installed(w http.ResponseWriter, r *http.Request) {
	render.ChiJSON(w, http.StatusOK, map[string]bool{"installed": h.sup.CheckInstalled()})
}
