package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/domain/auth"
	"personnel/internal/platform/config"
	"personnel/internal/platform/metrics"
	"personnel/internal/requestctx"
)

type echoActor struct{}

func (echoActor) RegisterRoutes(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestctx.Actor(r.Context())))
	})
}

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))
	return config.Config{
		JWTSecret:          "test-secret",
		FrontendDir:        dir,
		MaxBodyBytes:       1 << 20,
		MaxUploadBytes:     1 << 22,
		RateLimitPerMinute: 0,
		MetricsEnabled:     true,
		MetricsPath:        "/metrics",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
}

func get(h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProbes(t *testing.T) {
	ready := func(context.Context) error { return nil }
	h := NewRouter(testConfig(t), metrics.New(), ready)

	rec := get(h, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(h, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestReadyzReportsDatabaseFailure(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }
	h := NewRouter(testConfig(t), metrics.New(), down)

	rec := get(h, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewRouter(testConfig(t), metrics.New(), nil)
	_ = get(h, "/healthz", nil)

	rec := get(h, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "personnel_http_requests_total")
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = false
	h := NewRouter(cfg, metrics.New(), nil)

	rec := get(h, "/metrics", nil)
	assert.Contains(t, rec.Body.String(), "app", "falls through to the SPA")
}

func TestAPIActorResolution(t *testing.T) {
	cfg := testConfig(t)
	h := NewRouter(cfg, metrics.New(), nil, echoActor{})

	rec := get(h, "/api/v1/whoami", http.Header{"X-Actor": {"ADMIN"}})
	assert.Equal(t, "ADMIN", rec.Body.String())

	token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: 4, Username: "rh", RoleName: auth.RoleHR}, time.Hour)
	require.NoError(t, err)
	rec = get(h, "/api/v1/whoami", http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, auth.RoleHR, rec.Body.String())

	rec = get(h, "/api/v1/whoami", nil)
	assert.Empty(t, rec.Body.String())
}

func TestSPAFallback(t *testing.T) {
	h := NewRouter(testConfig(t), metrics.New(), nil)

	rec := get(h, "/employees/12", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app")

	req := httptest.NewRequest(http.MethodPost, "/employees", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
