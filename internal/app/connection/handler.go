// Package connection implements the test_connection command: one
// authenticated probe of the coordinator health endpoint.
package connection

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/pkg/healthcheck"
	"baystate-scraper-runner/internal/pkg/render"
)

var validate = validator.New()

type Handler struct {
	logger *zap.SugaredLogger
}

func NewHandler(logger *zap.SugaredLogger) *Handler {
	return &Handler{logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Post("/v1/connection/test", h.Test)
}

type testRequest struct {
	APIURL string `json:"api_url" validate:"required,url"`
	APIKey string `json:"api_key" validate:"required"`
}

func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "api_url and api_key are required")
		return
	}

	ok, err := healthcheck.Check(r.Context(), req.APIURL, req.APIKey)
	if err != nil {
		render.ChiErr(w, http.StatusBadGateway, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}
