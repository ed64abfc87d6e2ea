package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fclimits/app"
	"fclimits/internal"
	"fclimits/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	svc := app.NewLimitService(cfg, internal.NopLogger())
	return NewServer(svc, gin.TestMode, internal.NopLogger()).Handler()
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t, config.Default()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetLimits(t *testing.T) {
	rec := get(t, newTestServer(t, config.Default()), "/v1/limits?b=0&n=0")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result app.LimitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RunID)
	assert.InDelta(t, 2.44, result.Limits.Upper, 0.01)
	assert.Equal(t, 0.0, result.Limits.Lower)
}

func TestGetLimitsValidation(t *testing.T) {
	h := newTestServer(t, config.Default())

	for _, url := range []string{
		"/v1/limits?n=0",
		"/v1/limits?b=1",
		"/v1/limits?b=-1&n=0",
		"/v1/limits?b=1&n=-3",
		"/v1/limits?b=1&n=0&alpha=1.5",
		"/v1/limits?b=abc&n=0",
	} {
		rec := get(t, h, url)
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestGetLimitsNonConvergence(t *testing.T) {
	cfg := config.Default()
	cfg.FC.MaxIterations = 2

	rec := get(t, newTestServer(t, cfg), "/v1/limits?b=0&n=0")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NON_CONVERGENCE", body["code"])
}

func TestGetBeltRejectsOversizedGrid(t *testing.T) {
	h := newTestServer(t, config.Default())

	rec := get(t, h, "/v1/belt?b=3&mu_step=1e-13")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h, "/v1/belt?b=3&mu_max=200&mu_step=0.0001")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestGetBelt(t *testing.T) {
	rec := get(t, newTestServer(t, config.Default()), "/v1/belt?b=3&mu_max=2&mu_step=0.5")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result app.BeltResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Belt.Points, 5)
	assert.Equal(t, 0, result.Belt.Points[0].Lower)
	assert.Equal(t, 5, result.Belt.Points[0].Upper)
	assert.Equal(t, 5, result.Summary.Points)
}
