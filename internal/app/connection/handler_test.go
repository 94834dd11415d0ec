package connection

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func serve(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(zap.NewNop().Sugar())
	r := chi.NewRouter()
	h.RegisterRoute(r)
	req := httptest.NewRequest(http.MethodPost, "/v1/connection/test", strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestTest_HealthyCoordinator(t *testing.T) {
	t.Parallel()

	coordinator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/scraper-network/health", r.URL.Path)
		require.Equal(t, "bsr_key", r.Header.Get("X-API-Key"))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(coordinator.Close)

	rr := serve(t, `{"api_url":"`+coordinator.URL+`","api_key":"bsr_key"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]bool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.True(t, got["ok"])
}

func TestTest_RejectedKeyReportsNotOK(t *testing.T) {
	t.Parallel()

	coordinator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(coordinator.Close)

	rr := serve(t, `{"api_url":"`+coordinator.URL+`","api_key":"bsr_bad"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]bool
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.False(t, got["ok"])
}

func TestTest_UnreachableCoordinatorIs502(t *testing.T) {
	t.Parallel()

	// Closed server: dialing fails immediately.
	coordinator := httptest.NewServer(http.NotFoundHandler())
	url := coordinator.URL
	coordinator.Close()

	rr := serve(t, `{"api_url":"`+url+`","api_key":"bsr_key"}`)
	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Contains(t, rr.Body.String(), "connection failed")
}

func TestTest_RejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusBadRequest, serve(t, `{"api_url":"","api_key":"k"}`).Code)
	require.Equal(t, http.StatusBadRequest, serve(t, `{"api_url":"https://x.example"}`).Code)
	require.Equal(t, http.StatusBadRequest, serve(t, `not json`).Code)
}
