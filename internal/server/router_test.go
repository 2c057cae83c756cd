package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anu-bioinfo/pathway-connectivity/internal/graph"
	"github.com/anu-bioinfo/pathway-connectivity/internal/metrics"
)

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz_ReportsProgress(t *testing.T) {
	progress := NewProgress(3)
	progress.InputDone(true)
	progress.InputDone(false)
	progress.CountInteractions(metrics.OutcomeScored, 12)

	h := NewRouter(slog.New(slog.DiscardHandler), RouterDependencies{
		Health:   GraphHealthService{Client: graph.NewMemoryClient()},
		Progress: progress,
	})
	rec := serve(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status   string           `json:"status"`
		Progress ProgressSnapshot `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.Progress.Inputs)
	assert.Equal(t, 2, body.Progress.Done)
	assert.Equal(t, 1, body.Progress.Skipped)
	assert.Equal(t, 12, body.Progress.Interactions["scored"])
}

func TestHealthz_DegradedGraph(t *testing.T) {
	client := graph.NewMemoryClient().WithConnectivityError(errors.New("connection refused"))
	h := NewRouter(slog.New(slog.DiscardHandler), RouterDependencies{Health: GraphHealthService{Client: client}})

	rec := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestHealthz_NoExportIsHealthy(t *testing.T) {
	h := NewRouter(slog.New(slog.DiscardHandler), RouterDependencies{Health: GraphHealthService{}})
	assert.Equal(t, http.StatusOK, serve(t, h, "/healthz").Code)
}

func TestMetricsRoute(t *testing.T) {
	m := metrics.New()
	m.CacheMiss()

	h := NewRouter(slog.New(slog.DiscardHandler), RouterDependencies{Metrics: m.Handler()})
	rec := serve(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "channels_relax_cache_misses_total 1"), rec.Body.String())

	bare := NewRouter(slog.New(slog.DiscardHandler), RouterDependencies{})
	assert.Equal(t, http.StatusNotFound, serve(t, bare, "/metrics").Code)
}
