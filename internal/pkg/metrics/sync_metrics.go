package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeCached   = "cached"
	OutcomePartial  = "partial"
	OutcomeFallback = "fallback"
)

// SyncMetrics instruments entitlement and usage synchronization.
type SyncMetrics struct {
	syncTotal    *prometheus.CounterVec
	syncDuration *prometheus.HistogramVec
	notifyTotal  *prometheus.CounterVec
}

var (
	syncMetricsInstance *SyncMetrics
	syncMetricsOnce     sync.Once
)

// GetSyncMetrics returns the process-wide instance registered on the default registry.
func GetSyncMetrics() *SyncMetrics {
	syncMetricsOnce.Do(func() {
		syncMetricsInstance = NewSyncMetrics(prometheus.DefaultRegisterer)
	})
	return syncMetricsInstance
}

// NewSyncMetrics registers the collectors on registerer, reusing collectors
// that are already registered.
func NewSyncMetrics(registerer prometheus.Registerer) *SyncMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &SyncMetrics{
		syncTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "postfox",
				Subsystem: "entitlements",
				Name:      "sync_total",
				Help:      "Synchronization attempts by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		syncDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "postfox",
				Subsystem: "entitlements",
				Name:      "sync_duration_seconds",
				Help:      "Duration of synchronization attempts that touched the network",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 10},
			},
			[]string{"kind"},
		),
		notifyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "postfox",
				Subsystem: "entitlements",
				Name:      "upgrade_prompts_total",
				Help:      "Upgrade prompt notifications by prompt id",
			},
			[]string{"prompt"},
		),
	}

	m.syncTotal = register(registerer, m.syncTotal).(*prometheus.CounterVec)
	m.syncDuration = register(registerer, m.syncDuration).(*prometheus.HistogramVec)
	m.notifyTotal = register(registerer, m.notifyTotal).(*prometheus.CounterVec)
	return m
}

func register(registerer prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := registerer.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

func label(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// RecordSync counts one sync of kind ("entitlement", "usage", "init") with outcome.
func (m *SyncMetrics) RecordSync(kind, outcome string) {
	if m == nil {
		return
	}
	m.syncTotal.WithLabelValues(label(kind), label(outcome)).Inc()
}

// ObserveDuration records how long a network sync took.
func (m *SyncMetrics) ObserveDuration(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.syncDuration.WithLabelValues(label(kind)).Observe(d.Seconds())
}

// RecordPrompt counts an upgrade prompt notification.
func (m *SyncMetrics) RecordPrompt(promptID string) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(label(promptID)).Inc()
}

// SyncTotal exposes the sync counter, mainly for tests.
func (m *SyncMetrics) SyncTotal() *prometheus.CounterVec {
	return m.syncTotal
}

// PromptTotal exposes the prompt notification counter.
func (m *SyncMetrics) PromptTotal() *prometheus.CounterVec {
	return m.notifyTotal
}
