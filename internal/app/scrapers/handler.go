// Package scrapers wires the GUI's scraper commands to the Python sidecar
// and the local run history.
package scrapers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/history"
	"baystate-scraper-runner/internal/keychain"
	"baystate-scraper-runner/internal/pkg/render"
	"baystate-scraper-runner/internal/scraper"
	"baystate-scraper-runner/internal/settings"
)

var validate = validator.New()

// KeyStore and Sidecar are the slices of the keychain adapter and sidecar
// client this handler uses.
type KeyStore interface {
	Retrieve() (string, error)
}

type Sidecar interface {
	Run(scraperName string, skus []string, cfg scraper.RunConfig) (scraper.RunReport, error)
	List() ([]scraper.Info, error)
}

type Handler struct {
	store  *settings.Store
	keys   KeyStore
	client Sidecar
	runs   *history.Store
	logger *zap.SugaredLogger
}

func NewHandler(
	store *settings.Store,
	keys *keychain.Adapter,
	client *scraper.Client,
	runs *history.Store,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{store: store, keys: keys, client: client, runs: runs, logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/status", h.Status)
	r.Get("/v1/scrapers", h.List)
	r.Post("/v1/scrapers/{name}/run", h.Run)
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	render.ChiJSON(w, http.StatusOK, scraper.NewRunnerStatus(h.store.Load().RunnerName))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	infos, err := h.client.List()
	if err != nil {
		h.logger.Errorw("scraper_list_failed", "err", err)
		render.ChiErr(w, http.StatusBadGateway, err.Error())
		return
	}
	render.ChiJSON(w, http.StatusOK, map[string][]scraper.Info{"scrapers": infos})
}

type runRequest struct {
	SKUs []string `json:"skus" validate:"required,min=1,dive,required"`
}

type runResponse struct {
	RunID         string   `json:"run_id"`
	Success       bool     `json:"success"`
	ProductsFound int      `json:"products_found"`
	Errors        []string `json:"errors"`
	Logs          []string `json:"logs"`
}

func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		render.ChiErr(w, http.StatusBadRequest, "missing scraper name")
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "skus must be a non-empty list")
		return
	}

	apiKey, err := h.keys.Retrieve()
	if errors.Is(err, keychain.ErrNotFound) {
		render.ChiErr(w, http.StatusPreconditionFailed, "api key not configured")
		return
	}
	if err != nil {
		h.logger.Errorw("scraper_run_key_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc := h.store.Load()
	run, err := h.runs.RecordStart(r.Context(), name, len(req.SKUs))
	if err != nil {
		h.logger.Errorw("scraper_run_record_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, runErr := h.client.Run(name, req.SKUs, scraper.RunConfig{
		APIURL:     doc.APIURL,
		APIKey:     apiKey,
		RunnerName: doc.RunnerName,
		Headless:   doc.Headless,
	})
	if _, err := h.runs.Finish(r.Context(), run.ID, report.Success, report.ProductsFound, runErr); err != nil {
		h.logger.Warnw("scraper_run_finish_failed", "run_id", run.ID, "err", err)
	}

	if runErr != nil {
		h.logger.Errorw("scraper_run_failed", "scraper", name, "run_id", run.ID, "err", runErr)
		render.ChiErr(w, http.StatusBadGateway, runErr.Error())
		return
	}

	render.ChiJSON(w, http.StatusOK, runResponse{
		RunID:         run.ID,
		Success:       report.Success,
		ProductsFound: report.ProductsFound,
		Errors:        report.Errors,
		Logs:          report.Logs,
	})
}
