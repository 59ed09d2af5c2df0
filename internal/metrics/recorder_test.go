package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncPagesRendered(3)
	rec.IncPagesSkipped(2)
	rec.IncBuildOutcome("success")
	rec.IncStageResult("render", ResultSuccess)
	rec.ObserveStageDuration("render", 50*time.Millisecond)
	rec.ObserveBuildDuration(time.Second)

	assert.Equal(t, 3.0, testutil.ToFloat64(rec.pagesRendered))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.pagesSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.buildOutcome.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.stageResults.WithLabelValues("render", "success")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNoopRecorder_SafeToUse(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.ObserveBuildDuration(time.Second)
	rec.IncBuildOutcome("failed")
	rec.IncPagesRendered(1)
}
