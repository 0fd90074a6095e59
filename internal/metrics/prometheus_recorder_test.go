package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderCounters(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncStageResult("render_posts", ResultSuccess)
	pr.IncStageResult("render_posts", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.AddPagesRendered(7)
	pr.ObserveStageDuration("render_posts", 50*time.Millisecond)
	pr.ObserveBuildDuration(time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(pr.stageResults.WithLabelValues("render_posts", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pr.buildOutcome.WithLabelValues("success")))
	assert.Equal(t, float64(7), testutil.ToFloat64(pr.pagesRendered))
}

func TestPrometheusRecorderHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.AddPagesRendered(1)

	srv := httptest.NewServer(pr.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("x", ResultFatal)
	r.IncBuildOutcome("failed")
	r.AddPagesRendered(1)
}
