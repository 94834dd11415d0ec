// Package runs serves the local scrape-run history.
package runs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/history"
	"baystate-scraper-runner/internal/pkg/render"
)

type Handler struct {
	runs   *history.Store
	logger *zap.SugaredLogger
}

func NewHandler(runs *history.Store, logger *zap.SugaredLogger) *Handler {
	return &Handler{runs: runs, logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/runs", h.List)
	r.Get("/v1/runs/{id}", h.Get)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			render.ChiErr(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	list, err := h.runs.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("runs_list_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, map[string][]history.Run{"runs": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		render.ChiErr(w, http.StatusBadRequest, "missing id")
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		render.ChiErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		h.logger.Errorw("runs_get_failed", "id", id, "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, run)
}
