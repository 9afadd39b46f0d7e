package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/trendly/internal/pager"
)

func TestRecorderCountsOutcomes(t *testing.T) {
	r := NewRecorder()

	r.Observe(pager.Event{Kind: pager.KindReset, Outcome: pager.OutcomeReplaced, Added: 50, Duration: 120 * time.Millisecond})
	r.Observe(pager.Event{Kind: pager.KindMore, Outcome: pager.OutcomeAppended, Added: 40})
	r.Observe(pager.Event{Kind: pager.KindMore, Outcome: pager.OutcomeExhausted})
	r.Observe(pager.Event{Kind: pager.KindReset, Outcome: pager.OutcomeStale})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("reset", "replaced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("more", "appended")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("more", "exhausted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("reset", "stale")))
	assert.Equal(t, 50.0, testutil.ToFloat64(r.articles.WithLabelValues("reset")))
	assert.Equal(t, 40.0, testutil.ToFloat64(r.articles.WithLabelValues("more")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.Observe(pager.Event{Kind: pager.KindMore, Outcome: pager.OutcomeFailed})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `trendly_fetches_total{kind="more",outcome="failed"} 1`)

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
