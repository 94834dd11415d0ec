// Package settingsapi exposes the settings document to the GUI. Writes go
// through the explicit Settings Store owner; no ambient process state is
// mutated.
package settingsapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/pkg/render"
	"baystate-scraper-runner/internal/settings"
)

var validate = validator.New()

type Handler struct {
	store  *settings.Store
	logger *zap.SugaredLogger
}

func NewHandler(store *settings.Store, logger *zap.SugaredLogger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/settings", h.Get)
	r.Put("/v1/settings", h.Save)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	render.ChiJSON(w, http.StatusOK, h.store.Load())
}

// saveRequest covers the GUI-editable fields. Setup/install flags are owned
// by their own commands and preserved across saves.
type saveRequest struct {
	APIURL     string `json:"api_url" validate:"required,url"`
	RunnerName string `json:"runner_name" validate:"required"`
	Headless   bool   `json:"headless"`
	AutoUpdate bool   `json:"auto_update"`
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid settings: "+err.Error())
		return
	}

	doc, err := h.store.Update(func(doc *settings.AppSettings) {
		doc.APIURL = req.APIURL
		doc.RunnerName = req.RunnerName
		doc.Headless = req.Headless
		doc.AutoUpdate = req.AutoUpdate
	})
	if err != nil {
		h.logger.Errorw("settings_save_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, doc)
}
