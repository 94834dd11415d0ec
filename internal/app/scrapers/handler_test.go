package scrapers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"baystate-scraper-runner/db"
	"baystate-scraper-runner/internal/history"
	"baystate-scraper-runner/internal/keychain"
	"baystate-scraper-runner/internal/scraper"
	"baystate-scraper-runner/internal/settings"

	_ "modernc.org/sqlite"
)

type fakeKeys struct {
	key string
	err error
}

func (f *fakeKeys) Retrieve() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

type fakeSidecar struct {
	report scraper.RunReport
	infos  []scraper.Info
	err    error

	gotName string
	gotSKUs []string
	gotCfg  scraper.RunConfig
}

func (f *fakeSidecar) Run(name string, skus []string, cfg scraper.RunConfig) (scraper.RunReport, error) {
	f.gotName = name
	f.gotSKUs = skus
	f.gotCfg = cfg
	return f.report, f.err
}

func (f *fakeSidecar) List() ([]scraper.Info, error) {
	return f.infos, f.err
}

func newTestHandler(t *testing.T, keys KeyStore, client Sidecar) (*Handler, *history.Store) {
	t.Helper()

	sqlDB, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.MigrateUp(context.Background(), sqlDB))

	runs := history.NewStore(sqlDB)
	store := settings.NewStore(t.TempDir())
	h := &Handler{store: store, keys: keys, client: client, runs: runs, logger: zap.NewNop().Sugar()}
	return h, runs
}

func serve(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoute(r)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestStatus(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, &fakeKeys{}, &fakeSidecar{})
	rr := serve(t, h, http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var got scraper.RunnerStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.True(t, got.Online)
	require.Equal(t, scraper.Version, got.Version)
	require.Equal(t, settings.Defaults().RunnerName, got.RunnerName)
}

func TestList(t *testing.T) {
	t.Parallel()

	client := &fakeSidecar{infos: []scraper.Info{
		{Name: "petsuppliesplus", DisplayName: "Pet Supplies Plus", Status: "ready"},
	}}
	h, _ := newTestHandler(t, &fakeKeys{}, client)

	rr := serve(t, h, http.MethodGet, "/v1/scrapers", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "petsuppliesplus")
}

func TestList_SidecarFailureIs502(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, &fakeKeys{}, &fakeSidecar{err: errors.New("bridge exited")})
	rr := serve(t, h, http.MethodGet, "/v1/scrapers", "")
	require.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	client := &fakeSidecar{report: scraper.RunReport{
		Success:       true,
		ProductsFound: 7,
		Logs:          []string{"done"},
	}}
	h, runs := newTestHandler(t, &fakeKeys{key: "bsr_secret"}, client)

	rr := serve(t, h, http.MethodPost, "/v1/scrapers/chewy/run", `{"skus":["SKU-1","SKU-2"]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var got runResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.True(t, got.Success)
	require.Equal(t, 7, got.ProductsFound)
	require.NotEmpty(t, got.RunID)

	// Sidecar got the stored credential and the persisted settings.
	require.Equal(t, "chewy", client.gotName)
	require.Equal(t, []string{"SKU-1", "SKU-2"}, client.gotSKUs)
	require.Equal(t, "bsr_secret", client.gotCfg.APIKey)
	require.Equal(t, settings.DefaultAPIURL, client.gotCfg.APIURL)

	run, err := runs.GetByID(context.Background(), got.RunID)
	require.NoError(t, err)
	require.True(t, run.Success)
	require.Equal(t, 7, run.ProductsFound)
	require.Equal(t, 2, run.SKUCount)
	require.NotNil(t, run.FinishedAtMs)
	require.Nil(t, run.Error)
}

func TestRun_SidecarFailureIsRecordedAnd502(t *testing.T) {
	t.Parallel()

	client := &fakeSidecar{err: errors.New("sidecar exited with status 1")}
	h, runs := newTestHandler(t, &fakeKeys{key: "bsr_secret"}, client)

	rr := serve(t, h, http.MethodPost, "/v1/scrapers/chewy/run", `{"skus":["SKU-1"]}`)
	require.Equal(t, http.StatusBadGateway, rr.Code)

	list, err := runs.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.False(t, list[0].Success)
	require.NotNil(t, list[0].Error)
	require.Contains(t, *list[0].Error, "sidecar exited")
}

func TestRun_MissingKeyIs412(t *testing.T) {
	t.Parallel()

	h, runs := newTestHandler(t, &fakeKeys{err: keychain.ErrNotFound}, &fakeSidecar{})

	rr := serve(t, h, http.MethodPost, "/v1/scrapers/chewy/run", `{"skus":["SKU-1"]}`)
	require.Equal(t, http.StatusPreconditionFailed, rr.Code)
	require.Contains(t, rr.Body.String(), "api key not configured")

	// Nothing recorded for a run that never started.
	list, err := runs.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestRun_RejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t, &fakeKeys{key: "bsr_secret"}, &fakeSidecar{})

	require.Equal(t, http.StatusBadRequest,
		serve(t, h, http.MethodPost, "/v1/scrapers/chewy/run", `{"skus":[]}`).Code)
	require.Equal(t, http.StatusBadRequest,
		serve(t, h, http.MethodPost, "/v1/scrapers/chewy/run", `{}`).Code)
	require.Equal(t, http.StatusBadRequest,
		serve(t, h, http.MethodPost, "/v1/scrapers/chewy/run", `not json`).Code)
}
