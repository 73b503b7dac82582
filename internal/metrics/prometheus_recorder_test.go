package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_pages", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_pages", ResultSuccess)
	pr.IncStageResult("check_links", ResultFatal)
	pr.IncBuildOutcome(BuildOutcomeFailed)
	pr.SetSiteSize(23, 25)
	pr.SetBrokenLinks(2)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("check_links", "fatal")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("failed")), 0)
	assert.InDelta(t, 23, testutil.ToFloat64(pr.documents), 0)
	assert.InDelta(t, 25, testutil.ToFloat64(pr.pages), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.brokenLinks), 0)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncBuildOutcome(BuildOutcomeSuccess)
		pr.SetBrokenLinks(1)
	})
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome(BuildOutcomeSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `metasite_build_outcomes_total{outcome="success"} 1`))
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.SetSiteSize(1, 2)
	r.IncStageResult("load_content", ResultSuccess)
}
