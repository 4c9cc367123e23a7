package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAnswer(t *testing.T) {
	m := New()
	m.ObserveAnswer("heuristic", nil)
	m.ObserveAnswer("heuristic", nil)
	m.ObserveAnswer("openai", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.answers.WithLabelValues("heuristic", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.answers.WithLabelValues("openai", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAnswer("x", nil)
		m.ObserveScrape("fetch", nil)
		m.ObserveRemote("openai", time.Second)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveScrape("fetch", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pagechat_scrapes_total{method="fetch",outcome="success"} 1`)
}
