package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSyncMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSyncMetrics(reg)

	m.RecordSync("entitlement", OutcomeSuccess)
	m.RecordSync("entitlement", OutcomeSuccess)
	m.RecordSync("usage", OutcomeFallback)
	m.RecordSync("", OutcomeCached)
	m.ObserveDuration("entitlement", 150*time.Millisecond)
	m.RecordPrompt("article-limit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.syncTotal.WithLabelValues("entitlement", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncTotal.WithLabelValues("usage", OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncTotal.WithLabelValues("unknown", OutcomeCached)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifyTotal.WithLabelValues("article-limit")))
}

func TestNewSyncMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewSyncMetrics(reg)
	second := NewSyncMetrics(reg)

	first.RecordSync("init", OutcomeSuccess)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.syncTotal.WithLabelValues("init", OutcomeSuccess)))
}

func TestNilSyncMetricsIsSafe(t *testing.T) {
	var m *SyncMetrics
	assert.NotPanics(t, func() {
		m.RecordSync("usage", OutcomeSuccess)
		m.ObserveDuration("usage", time.Second)
		m.RecordPrompt("go-pro")
	})
}
