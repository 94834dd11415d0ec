package settingsapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/settings"
)

func newTestHandler(t *testing.T) (*Handler, *settings.Store) {
	t.Helper()
	store := settings.NewStore(t.TempDir())
	return NewHandler(store, zap.NewNop().Sugar()), store
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

func TestGet_ReturnsDefaultsOnFreshEnvironment(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	rr := serve(t, h, http.MethodGet, "/v1/settings", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var got settings.AppSettings
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, settings.Defaults(), got)
}

func TestSave_UpdatesEditableFieldsOnly(t *testing.T) {
	t.Parallel()

	h, store := newTestHandler(t)

	_, err := store.Update(func(doc *settings.AppSettings) {
		doc.FirstRunComplete = true
		doc.ChromiumInstalled = true
	})
	require.NoError(t, err)

	rr := serve(t, h, http.MethodPut, "/v1/settings",
		`{"api_url":"https://staging.baystatepet.com","runner_name":"bench-03","headless":false,"auto_update":false}`)
	require.Equal(t, http.StatusOK, rr.Code)

	got := store.Load()
	require.Equal(t, "https://staging.baystatepet.com", got.APIURL)
	require.Equal(t, "bench-03", got.RunnerName)
	require.False(t, got.Headless)
	require.False(t, got.AutoUpdate)

	// Wizard/install flags are not GUI-editable.
	require.True(t, got.FirstRunComplete)
	require.True(t, got.ChromiumInstalled)
}

func TestSave_RejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)

	rr := serve(t, h, http.MethodPut, "/v1/settings", `{"api_url":"not a url","runner_name":"x"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(t, h, http.MethodPut, "/v1/settings", `{"api_url":"https://ok.example","runner_name":""}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(t, h, http.MethodPut, "/v1/settings", `not json`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
