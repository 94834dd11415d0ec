package chromium

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"baystate-scraper-runner/internal/events"
	"baystate-scraper-runner/internal/installer"
	"baystate-scraper-runner/internal/settings"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake installer script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-playwright")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func newTestHandler(t *testing.T, installerPath string) (*Handler, *installer.Supervisor, *settings.Store) {
	t.Helper()
	store := settings.NewStore(t.TempDir())
	sup := installer.NewSupervisor(store, zap.NewNop().Sugar(), installerPath)
	return NewHandler(sup, events.NewHub(zap.NewNop().Sugar()), zap.NewNop().Sugar()), sup, store
}

func post(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoute(r)
	req := httptest.NewRequest(http.MethodPost, target, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestInstall_StartsAsyncAndCompletes(t *testing.T) {
	t.Parallel()

	h, _, store := newTestHandler(t, writeScript(t, "echo 'Extracting' >&2\nexit 0\n"))

	rr := post(t, h, "/v1/chromium/install")
	require.Equal(t, http.StatusAccepted, rr.Code)

	require.Eventually(t, func() bool {
		return store.Load().ChromiumInstalled
	}, 5*time.Second, 20*time.Millisecond)
}

func TestInstall_SecondRequestWhileRunningIs409(t *testing.T) {
	t.Parallel()

	h, sup, _ := newTestHandler(t, writeScript(t, "sleep 2\nexit 0\n"))

	rr := post(t, h, "/v1/chromium/install")
	require.Equal(t, http.StatusAccepted, rr.Code)

	require.Eventually(t, sup.Running, time.Second, 10*time.Millisecond)

	rr = post(t, h, "/v1/chromium/install")
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestInstalled_FreshEnvironmentIsFalse(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t, "playwright")

	r := chi.NewRouter()
	h.RegisterRoute(r)
	req := httptest.NewRequest(http.MethodGet, "/v1/chromium/installed", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"installed":false`)
}
