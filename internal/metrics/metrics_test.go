package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	m := New()
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.Relaxed(3, 10, 2*time.Millisecond)
	m.CountInteractions(OutcomeScored, 4)
	m.InputDone(true)
	m.InputDone(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Interactions.WithLabelValues(OutcomeScored)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Inputs.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Inputs.WithLabelValues("scored")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RelaxRounds))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.CacheMiss()
	path := filepath.Join(t.TempDir(), "channels.prom")

	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "channels_relax_cache_misses_total 1")
}

func TestHandler(t *testing.T) {
	m := New()
	m.CountInteractions(OutcomeAdmitted, 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `channels_interactions_total{outcome="admitted"} 2`)
}
