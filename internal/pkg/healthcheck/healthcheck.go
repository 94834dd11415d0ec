// Package healthcheck probes the coordinator's scraper-network health
// endpoint with the caller-supplied API key.
package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	healthPath     = "/api/admin/scraper-network/health"
	apiKeyHeader   = "X-API-Key"
	defaultTimeout = 10 * time.Second
)

// newHTTPClient is swappable in tests.
var newHTTPClient = func(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// HealthURL joins the base API URL with the health endpoint path.
func HealthURL(apiURL string) string {
	return strings.TrimRight(strings.TrimSpace(apiURL), "/") + healthPath
}

// Check issues one authenticated GET against the health endpoint and
// reports whether the response status is in the 2xx range. Transport
// failures (connect, timeout) surface as a connection-failed error.
func Check(ctx context.Context, apiURL, apiKey string) (bool, error) {
	if strings.TrimSpace(apiURL) == "" {
		return false, fmt.Errorf("missing api url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, HealthURL(apiURL), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set(apiKeyHeader, apiKey)

	resp, err := newHTTPClient(defaultTimeout).Do(req)
	if err != nil {
		return false, fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	return ok, nil
}
