// Package setup implements the first-run wizard commands: setup status,
// completion, app reset and the data-dir lookup.
package setup

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/installer"
	"baystate-scraper-runner/internal/keychain"
	"baystate-scraper-runner/internal/pkg/render"
	"baystate-scraper-runner/internal/settings"
)

// KeyStore is the slice of the keychain adapter this handler uses.
type KeyStore interface {
	Exists() bool
	Delete() error
}

type Handler struct {
	store  *settings.Store
	keys   KeyStore
	sup    *installer.Supervisor
	logger *zap.SugaredLogger
}

func NewHandler(store *settings.Store, keys *keychain.Adapter, sup *installer.Supervisor, logger *zap.SugaredLogger) *Handler {
	return &Handler{store: store, keys: keys, sup: sup, logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/setup/status", h.Status)
	r.Post("/v1/setup/complete", h.Complete)
	r.Post("/v1/app/reset", h.Reset)
	r.Get("/v1/app/data-dir", h.DataDir)
}

type setupStatus struct {
	FirstRunComplete  bool   `json:"first_run_complete"`
	HasAPIKey         bool   `json:"has_api_key"`
	ChromiumInstalled bool   `json:"chromium_installed"`
	APIURL            string `json:"api_url"`
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	doc := h.store.Load()
	render.ChiJSON(w, http.StatusOK, setupStatus{
		FirstRunComplete:  doc.FirstRunComplete,
		HasAPIKey:         h.keys.Exists(),
		ChromiumInstalled: h.sup.CheckInstalled(),
		APIURL:            doc.APIURL,
	})
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Update(func(doc *settings.AppSettings) {
		doc.FirstRunComplete = true
	})
	if err != nil {
		h.logger.Errorw("setup_complete_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, doc)
}

// Reset deletes the credential (best-effort) and rewrites the settings
// file with defaults.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.keys.Delete(); err != nil {
		h.logger.Warnw("reset_credential_delete_failed", "err", err)
	}
	if err := h.store.Save(settings.Defaults()); err != nil {
		h.logger.Errorw("reset_settings_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) DataDir(w http.ResponseWriter, r *http.Request) {
	render.ChiJSON(w, http.StatusOK, map[string]string{"path": h.store.Dir()})
}
