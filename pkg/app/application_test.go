package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stallmap/pkg/config"
	"stallmap/pkg/logger"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv("test")
	require.NoError(t, err)
	cfg.Log = logger.New(logger.Config{Output: io.Discard})
	return cfg
}

func TestApplication_RoutesAndMiddleware(t *testing.T) {
	cfg := testConfig(t)
	a := NewApplication(cfg)
	a.SetApp(echoHandler{}, NewHealthHandler(cfg.Log, nil))
	t.Cleanup(a.idempotencyStore.Stop)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{"ok":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`ok`))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHealthHandler_Ready(t *testing.T) {
	log := logger.New(logger.Config{Output: io.Discard})
	router := httprouter.New()
	NewHealthHandler(log,
		func() map[string]any { return map[string]any{"sessions": 2} },
		HealthCheck{Name: "mongo", Check: func(context.Context) error { return nil }},
		HealthCheck{Name: "layout_store", Check: func(context.Context) error { return errors.New("refused") }},
	).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "ok", resp.Checks["mongo"])
	assert.Equal(t, "error", resp.Checks["layout_store"])
	assert.Equal(t, float64(2), resp.Info["sessions"])
}
