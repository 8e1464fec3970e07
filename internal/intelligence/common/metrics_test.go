package common

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheusNormaliserMetrics_Success(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewPrometheusNormaliserMetrics(registry)
	assert.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewPrometheusNormaliserMetrics_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewPrometheusNormaliserMetrics(registry)
	assert.NoError(t, err)

	_, err = NewPrometheusNormaliserMetrics(registry)
	assert.Error(t, err)
}

func TestPrometheus_RecordNormalisation(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewPrometheusNormaliserMetrics(registry)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordNormalisation(ctx, &NormalisationMetricParams{Domain: "general", Rule: "yesterday", Type: "DATE", DurationMs: 0.2})
	m.RecordNormalisation(ctx, &NormalisationMetricParams{Domain: "general", Rule: "default", Type: "DATE", DurationMs: 0.4})
	m.RecordNormalisation(ctx, nil)

	pm := m.(*prometheusNormaliserMetrics)
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.normalisationTotal.WithLabelValues("general", "yesterday", "DATE")))

	stats := m.GetCurrentStats()
	assert.Equal(t, int64(2), stats.TotalNormalisations)
	assert.Equal(t, int64(1), stats.DefaultNormalisations)
	assert.Equal(t, int64(1), stats.RuleCounts["yesterday"])
	assert.InDelta(t, 0.3, stats.AvgLatencyMs, 1e-9)
}

func TestPrometheus_DocumentsAndCache(t *testing.T) {
	m, err := NewPrometheusNormaliserMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDocument(ctx, &DocumentMetricParams{Domain: "clinical", Spans: 4, DefaultSpans: 1, Success: true})
	m.RecordDocument(ctx, &DocumentMetricParams{Domain: "clinical", Success: false})
	m.RecordCacheAccess(ctx, true, "clinical")
	m.RecordCacheAccess(ctx, false, "clinical")
	m.RecordCacheAccess(ctx, true, "clinical")
	m.RecordRejectedReference(ctx, "clinical")

	stats := m.GetCurrentStats()
	assert.Equal(t, int64(2), stats.Documents)
	assert.Equal(t, int64(1), stats.FailedDocuments)
	assert.Equal(t, int64(1), stats.RejectedReferences)
	assert.InDelta(t, 2.0/3.0, stats.CacheHitRate, 1e-9)
}

func TestInMemory_RecordNormalisation(t *testing.T) {
	m := NewInMemoryNormaliserMetrics()
	ctx := context.Background()
	m.RecordNormalisation(ctx, &NormalisationMetricParams{Rule: "today", DurationMs: 1, Anaphoric: true})
	m.RecordNormalisation(ctx, &NormalisationMetricParams{Rule: "default", DurationMs: 3})

	require.Len(t, m.Normalisations(), 2)
	stats := m.GetCurrentStats()
	assert.Equal(t, int64(1), stats.DefaultNormalisations)
	assert.Equal(t, int64(1), stats.AnaphoricResolutions)
	assert.Equal(t, float64(2), stats.AvgLatencyMs)
	assert.Equal(t, int64(2), m.GetLatencyHistogram().Count())
}

func TestNoop_AllMethods_NoPanic(t *testing.T) {
	m := NewNoopNormaliserMetrics()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordNormalisation(ctx, &NormalisationMetricParams{})
		m.RecordDocument(ctx, &DocumentMetricParams{})
		m.RecordCacheAccess(ctx, true, "general")
		m.RecordRejectedReference(ctx, "general")
		m.GetLatencyHistogram()
		m.GetCurrentStats()
	})
}

func TestLatencyHistogram_Percentiles(t *testing.T) {
	h := newLatencyHistogram()
	assert.Equal(t, float64(0), h.Percentile(50))
	for i := 1; i <= 100; i++ {
		h.Observe(float64(i))
	}
	assert.Equal(t, float64(1), h.Percentile(0))
	assert.Equal(t, float64(100), h.Percentile(100))
	assert.InDelta(t, 50.5, h.Percentile(50), 1e-9)
	assert.InDelta(t, 99.01, h.Percentile(99), 1e-9)
	assert.Equal(t, int64(100), h.Count())
	assert.Equal(t, float64(5050), h.Sum())
}

func TestLatencyHistogram_ConcurrentAccess(t *testing.T) {
	h := newLatencyHistogram()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Observe(float64(i*j) + 0.5)
				_ = h.Percentile(95)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int64(800), h.Count())
}

//Personal.AI order the ending
