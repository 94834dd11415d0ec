// Package credentials exposes the API-key commands backed by the OS
// keychain. The key never transits the settings file or the logs.
package credentials

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/keychain"
	"baystate-scraper-runner/internal/pkg/render"
)

var validate = validator.New()

// KeyStore is the slice of the keychain adapter this handler uses.
type KeyStore interface {
	Store(key string) error
	Retrieve() (string, error)
}

type Handler struct {
	keys   KeyStore
	logger *zap.SugaredLogger
}

func NewHandler(keys *keychain.Adapter, logger *zap.SugaredLogger) *Handler {
	return &Handler{keys: keys, logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/api-key", h.Save)
	r.Get("/v1/api-key", h.Get)
}

type saveRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "api_key is required")
		return
	}

	if err := h.keys.Store(req.APIKey); err != nil {
		if errors.Is(err, keychain.ErrInvalidKey) {
			render.ChiErr(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorw("api_key_store_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := h.keys.Retrieve()
	if errors.Is(err, keychain.ErrNotFound) {
		render.ChiErr(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Errorw("api_key_retrieve_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, map[string]string{"api_key": key})
}
