package common

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

// NormaliserMetrics is the telemetry API of the normalisation layer.  The
// normaliser and the annotation service record through it so the backing
// implementation (Prometheus, in-memory, noop) can be swapped freely.
type NormaliserMetrics interface {
	// RecordNormalisation records one cascade evaluation.
	RecordNormalisation(ctx context.Context, params *NormalisationMetricParams)

	// RecordDocument records one annotated document.
	RecordDocument(ctx context.Context, params *DocumentMetricParams)

	// RecordCacheAccess records a result-cache hit or miss.
	RecordCacheAccess(ctx context.Context, hit bool, domain string)

	// RecordRejectedReference records a malformed reference date.
	RecordRejectedReference(ctx context.Context, domain string)

	// GetLatencyHistogram returns the per-expression latency histogram.
	GetLatencyHistogram() LatencyHistogram

	// GetCurrentStats returns a point-in-time statistics snapshot.
	GetCurrentStats() *NormaliserStats
}

// LatencyHistogram provides percentile-based latency observation.
type LatencyHistogram interface {
	// Observe records a latency sample in milliseconds.
	Observe(durationMs float64)

	// Percentile returns the value at the given percentile (0–100).
	Percentile(p float64) float64

	// Count returns the total number of observed samples.
	Count() int64

	// Sum returns the sum of all observed values.
	Sum() float64
}

// ---------------------------------------------------------------------------
// Parameter structs
// ---------------------------------------------------------------------------

// NormalisationMetricParams carries the data for one normalisation.
type NormalisationMetricParams struct {
	Domain     string  `json:"domain"`
	Rule       string  `json:"rule"`
	Type       string  `json:"type"`
	DurationMs float64 `json:"duration_ms"`
	Anaphoric  bool    `json:"anaphoric"`
}

// DocumentMetricParams carries the data for one annotated document.
type DocumentMetricParams struct {
	Domain       string  `json:"domain"`
	Spans        int     `json:"spans"`
	DefaultSpans int     `json:"default_spans"`
	DurationMs   float64 `json:"duration_ms"`
	Success      bool    `json:"success"`
}

// NormaliserStats is a point-in-time snapshot of normaliser metrics.
type NormaliserStats struct {
	TotalNormalisations   int64            `json:"total_normalisations"`
	DefaultNormalisations int64            `json:"default_normalisations"`
	AnaphoricResolutions  int64            `json:"anaphoric_resolutions"`
	RejectedReferences    int64            `json:"rejected_references"`
	Documents             int64            `json:"documents"`
	FailedDocuments       int64            `json:"failed_documents"`
	AvgLatencyMs          float64          `json:"avg_latency_ms"`
	P50LatencyMs          float64          `json:"p50_latency_ms"`
	P95LatencyMs          float64          `json:"p95_latency_ms"`
	P99LatencyMs          float64          `json:"p99_latency_ms"`
	CacheHitRate          float64          `json:"cache_hit_rate"`
	RuleCounts            map[string]int64 `json:"rule_counts"`
}

// ruleDefault mirrors the trace label of the no-match outcome.
const ruleDefault = "default"

// ---------------------------------------------------------------------------
// Prometheus implementation
// ---------------------------------------------------------------------------

const metricsPrefix = "timexnorm_normaliser_"

var defaultLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50}

type prometheusNormaliserMetrics struct {
	normalisationLatency *prometheus.HistogramVec
	normalisationTotal   *prometheus.CounterVec
	documentDuration     *prometheus.HistogramVec
	documentSpans        *prometheus.CounterVec
	documentTotal        *prometheus.CounterVec
	cacheAccessTotal     *prometheus.CounterVec
	rejectedTotal        *prometheus.CounterVec

	// in-memory tracking for GetCurrentStats / GetLatencyHistogram
	latencyHist *latencyHistogram
	total       atomic.Int64
	defaults    atomic.Int64
	anaphoric   atomic.Int64
	rejected    atomic.Int64
	documents   atomic.Int64
	failedDocs  atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	ruleCounts  sync.Map // rule -> *atomic.Int64
}

// NewPrometheusNormaliserMetrics creates a Prometheus-backed collector and
// registers every metric with the supplied Registerer.
func NewPrometheusNormaliserMetrics(registerer prometheus.Registerer) (NormaliserMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &prometheusNormaliserMetrics{
		latencyHist: newLatencyHistogram(),
	}

	m.normalisationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricsPrefix + "duration_milliseconds",
		Help:    "Histogram of per-expression normalisation latency in milliseconds.",
		Buckets: defaultLatencyBuckets,
	}, []string{"domain", "type"})

	m.normalisationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "rule_fired_total",
		Help: "Total number of normalisations by the cascade rule that fired.",
	}, []string{"domain", "rule", "type"})

	m.documentDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricsPrefix + "document_duration_milliseconds",
		Help:    "Histogram of per-document annotation latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"domain"})

	m.documentSpans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "document_spans_total",
		Help: "Total number of spans annotated, split by outcome.",
	}, []string{"domain", "outcome"})

	m.documentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "documents_total",
		Help: "Total number of documents annotated.",
	}, []string{"domain", "status"})

	m.cacheAccessTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "cache_access_total",
		Help: "Total number of result cache accesses.",
	}, []string{"domain", "result"})

	m.rejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "rejected_reference_total",
		Help: "Total number of malformed reference dates.",
	}, []string{"domain"})

	collectors := []prometheus.Collector{
		m.normalisationLatency,
		m.normalisationTotal,
		m.documentDuration,
		m.documentSpans,
		m.documentTotal,
		m.cacheAccessTotal,
		m.rejectedTotal,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *prometheusNormaliserMetrics) RecordNormalisation(_ context.Context, p *NormalisationMetricParams) {
	if p == nil {
		return
	}
	m.normalisationLatency.WithLabelValues(p.Domain, p.Type).Observe(p.DurationMs)
	m.normalisationTotal.WithLabelValues(p.Domain, p.Rule, p.Type).Inc()

	m.latencyHist.Observe(p.DurationMs)
	m.total.Add(1)
	if p.Rule == ruleDefault {
		m.defaults.Add(1)
	}
	if p.Anaphoric {
		m.anaphoric.Add(1)
	}
	counter, _ := m.ruleCounts.LoadOrStore(p.Rule, new(atomic.Int64))
	counter.(*atomic.Int64).Add(1)
}

func (m *prometheusNormaliserMetrics) RecordDocument(_ context.Context, p *DocumentMetricParams) {
	if p == nil {
		return
	}
	status := "success"
	if !p.Success {
		status = "failure"
		m.failedDocs.Add(1)
	}
	m.documents.Add(1)
	m.documentDuration.WithLabelValues(p.Domain).Observe(p.DurationMs)
	m.documentTotal.WithLabelValues(p.Domain, status).Inc()
	m.documentSpans.WithLabelValues(p.Domain, "resolved").Add(float64(p.Spans - p.DefaultSpans))
	m.documentSpans.WithLabelValues(p.Domain, "default").Add(float64(p.DefaultSpans))
}

func (m *prometheusNormaliserMetrics) RecordCacheAccess(_ context.Context, hit bool, domain string) {
	result := "miss"
	if hit {
		result = "hit"
		m.cacheHits.Add(1)
	} else {
		m.cacheMisses.Add(1)
	}
	m.cacheAccessTotal.WithLabelValues(domain, result).Inc()
}

func (m *prometheusNormaliserMetrics) RecordRejectedReference(_ context.Context, domain string) {
	m.rejected.Add(1)
	m.rejectedTotal.WithLabelValues(domain).Inc()
}

func (m *prometheusNormaliserMetrics) GetLatencyHistogram() LatencyHistogram {
	return m.latencyHist
}

func (m *prometheusNormaliserMetrics) GetCurrentStats() *NormaliserStats {
	total := m.total.Load()

	var avgLatency float64
	if total > 0 {
		avgLatency = m.latencyHist.Sum() / float64(total)
	}

	rules := make(map[string]int64)
	m.ruleCounts.Range(func(key, value any) bool {
		rules[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	return &NormaliserStats{
		TotalNormalisations:   total,
		DefaultNormalisations: m.defaults.Load(),
		AnaphoricResolutions:  m.anaphoric.Load(),
		RejectedReferences:    m.rejected.Load(),
		Documents:             m.documents.Load(),
		FailedDocuments:       m.failedDocs.Load(),
		AvgLatencyMs:          avgLatency,
		P50LatencyMs:          m.latencyHist.Percentile(50),
		P95LatencyMs:          m.latencyHist.Percentile(95),
		P99LatencyMs:          m.latencyHist.Percentile(99),
		CacheHitRate:          hitRate(m.cacheHits.Load(), m.cacheMisses.Load()),
		RuleCounts:            rules,
	}
}

// ---------------------------------------------------------------------------
// Noop implementation
// ---------------------------------------------------------------------------

type noopNormaliserMetrics struct{}

// NewNoopNormaliserMetrics returns a no-op metrics implementation.
func NewNoopNormaliserMetrics() NormaliserMetrics {
	return &noopNormaliserMetrics{}
}

func (n *noopNormaliserMetrics) RecordNormalisation(context.Context, *NormalisationMetricParams) {}
func (n *noopNormaliserMetrics) RecordDocument(context.Context, *DocumentMetricParams)           {}
func (n *noopNormaliserMetrics) RecordCacheAccess(context.Context, bool, string)                 {}
func (n *noopNormaliserMetrics) RecordRejectedReference(context.Context, string)                 {}

func (n *noopNormaliserMetrics) GetLatencyHistogram() LatencyHistogram {
	return newLatencyHistogram()
}

func (n *noopNormaliserMetrics) GetCurrentStats() *NormaliserStats {
	return &NormaliserStats{RuleCounts: map[string]int64{}}
}

// ---------------------------------------------------------------------------
// In-memory implementation (for testing)
// ---------------------------------------------------------------------------

// InMemoryNormaliserMetrics keeps every recorded event for inspection.
type InMemoryNormaliserMetrics struct {
	mu sync.Mutex

	normalisations []NormalisationMetricParams
	documents      []DocumentMetricParams
	cacheHits      int64
	cacheMisses    int64
	rejected       int64
	latencyHist    *latencyHistogram
}

// NewInMemoryNormaliserMetrics returns an in-memory metrics implementation
// suitable for unit tests.
func NewInMemoryNormaliserMetrics() *InMemoryNormaliserMetrics {
	return &InMemoryNormaliserMetrics{latencyHist: newLatencyHistogram()}
}

func (m *InMemoryNormaliserMetrics) RecordNormalisation(_ context.Context, p *NormalisationMetricParams) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.normalisations = append(m.normalisations, *p)
	m.latencyHist.Observe(p.DurationMs)
}

func (m *InMemoryNormaliserMetrics) RecordDocument(_ context.Context, p *DocumentMetricParams) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = append(m.documents, *p)
}

func (m *InMemoryNormaliserMetrics) RecordCacheAccess(_ context.Context, hit bool, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

func (m *InMemoryNormaliserMetrics) RecordRejectedReference(context.Context, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected++
}

func (m *InMemoryNormaliserMetrics) GetLatencyHistogram() LatencyHistogram {
	return m.latencyHist
}

func (m *InMemoryNormaliserMetrics) GetCurrentStats() *NormaliserStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &NormaliserStats{
		TotalNormalisations: int64(len(m.normalisations)),
		RejectedReferences:  m.rejected,
		Documents:           int64(len(m.documents)),
		CacheHitRate:        hitRate(m.cacheHits, m.cacheMisses),
		RuleCounts:          make(map[string]int64),
		P50LatencyMs:        m.latencyHist.Percentile(50),
		P95LatencyMs:        m.latencyHist.Percentile(95),
		P99LatencyMs:        m.latencyHist.Percentile(99),
	}
	var sum float64
	for _, n := range m.normalisations {
		stats.RuleCounts[n.Rule]++
		if n.Rule == ruleDefault {
			stats.DefaultNormalisations++
		}
		if n.Anaphoric {
			stats.AnaphoricResolutions++
		}
		sum += n.DurationMs
	}
	if stats.TotalNormalisations > 0 {
		stats.AvgLatencyMs = sum / float64(stats.TotalNormalisations)
	}
	for _, d := range m.documents {
		if !d.Success {
			stats.FailedDocuments++
		}
	}
	return stats
}

// Normalisations returns a copy of every recorded normalisation.
func (m *InMemoryNormaliserMetrics) Normalisations() []NormalisationMetricParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NormalisationMetricParams(nil), m.normalisations...)
}

// Documents returns a copy of every recorded document.
func (m *InMemoryNormaliserMetrics) Documents() []DocumentMetricParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]DocumentMetricParams(nil), m.documents...)
}

// CacheHits returns the number of cache hits recorded.
func (m *InMemoryNormaliserMetrics) CacheHits() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHits
}

// CacheMisses returns the number of cache misses recorded.
func (m *InMemoryNormaliserMetrics) CacheMisses() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheMisses
}

// ---------------------------------------------------------------------------
// latencyHistogram: in-memory percentile tracking
// ---------------------------------------------------------------------------

type latencyHistogram struct {
	mu      sync.RWMutex
	samples []float64
	sum     float64
	sorted  bool
}

func newLatencyHistogram() *latencyHistogram {
	return &latencyHistogram{
		samples: make([]float64, 0, 1024),
	}
}

func (h *latencyHistogram) Observe(durationMs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = append(h.samples, durationMs)
	h.sum += durationMs
	h.sorted = false
}

// Percentile returns the value at percentile p (0–100) using linear
// interpolation between the two nearest ranks.
func (h *latencyHistogram) Percentile(p float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.samples)
	if n == 0 {
		return 0
	}
	if !h.sorted {
		sort.Float64s(h.samples)
		h.sorted = true
	}
	if p <= 0 {
		return h.samples[0]
	}
	if p >= 100 {
		return h.samples[n-1]
	}

	rank := (p / 100) * float64(n-1)
	lower := int(math.Floor(rank))
	upper := lower + 1
	if upper >= n {
		return h.samples[n-1]
	}
	frac := rank - float64(lower)
	return h.samples[lower] + frac*(h.samples[upper]-h.samples[lower])
}

func (h *latencyHistogram) Count() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return int64(len(h.samples))
}

func (h *latencyHistogram) Sum() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sum
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// compile-time interface checks
var (
	_ NormaliserMetrics = (*prometheusNormaliserMetrics)(nil)
	_ NormaliserMetrics = (*noopNormaliserMetrics)(nil)
	_ NormaliserMetrics = (*InMemoryNormaliserMetrics)(nil)
	_ LatencyHistogram  = (*latencyHistogram)(nil)
)

//Personal.AI order the ending
