package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/timexnorm/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "timexnorm", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_RuntimeCollectors(t *testing.T) {
	c, err := NewMetricsCollector(DefaultCollectorConfig(), nil)
	require.NoError(t, err)
	out := scrape(t, c)
	assert.Contains(t, out, "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("spans_total", "spans", "domain")
	vec.WithLabelValues("clinical").Inc()
	vec.WithLabelValues("clinical").Add(2)

	assert.Contains(t, scrape(t, c), `timexnorm_unit_spans_total{domain="clinical"} 3`)
}

func TestRegisterCounter_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_total", "dup").WithLabelValues().Inc()
	c.RegisterCounter("dup_total", "dup").WithLabelValues().Inc()

	assert.Contains(t, scrape(t, c), "timexnorm_unit_dup_total 2")
}

func TestRegister_TypeMismatchFallsBackToNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("shared", "first")
	g := c.RegisterGauge("shared", "second")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(4) })
}

func TestRegisterGaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterGauge("queue_depth", "depth", "topic").WithLabelValues("timex.documents").Set(7)
	c.RegisterHistogram("latency_seconds", "latency", nil, "route").WithLabelValues("/healthz").Observe(0.01)

	out := scrape(t, c)
	assert.Contains(t, out, `timexnorm_unit_queue_depth{topic="timex.documents"} 7`)
	assert.Contains(t, out, `timexnorm_unit_latency_seconds_count{route="/healthz"} 1`)
}

func TestRegisterer_SharesRegistry(t *testing.T) {
	c := newTestCollector(t)
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "external_total", Help: "external"})
	require.NoError(t, c.Registerer().Register(extra))
	extra.Inc()

	families, err := c.Gatherer().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "external_total")
}

func TestRegisterCounter_Concurrent(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("race_total", "race").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	assert.Contains(t, scrape(t, c), "timexnorm_unit_race_total 16")
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timer_seconds", "timer", nil)
	d := NewTimer(h.WithLabelValues()).ObserveDuration()
	assert.GreaterOrEqual(t, d, time.Duration(0))
	assert.Contains(t, scrape(t, c), "timexnorm_unit_timer_seconds_count 1")

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
