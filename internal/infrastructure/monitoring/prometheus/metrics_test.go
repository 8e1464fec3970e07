package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceMetrics_HTTP(t *testing.T) {
	c := newTestCollector(t)
	m := NewServiceMetrics(c)
	require.NotNil(t, m)

	m.RecordHTTPRequest("POST", "/api/v1/normalise", 200, 3*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/normalise", 400, time.Millisecond)

	out := scrape(t, c)
	assert.Contains(t, out, `timexnorm_unit_http_requests_total{method="POST",route="/api/v1/normalise",status_code="200"} 1`)
	assert.Contains(t, out, `timexnorm_unit_http_requests_total{method="POST",route="/api/v1/normalise",status_code="400"} 1`)
	assert.Contains(t, out, `timexnorm_unit_http_request_duration_seconds_count{method="POST",route="/api/v1/normalise"} 2`)
}

func TestServiceMetrics_Worker(t *testing.T) {
	c := newTestCollector(t)
	m := NewServiceMetrics(c)

	m.RecordMessage("timex.documents", nil, time.Millisecond)
	m.RecordMessage("timex.documents", errors.New("decode"), time.Millisecond)
	m.RecordDeadLetter("timex.documents", "decode")

	out := scrape(t, c)
	assert.Contains(t, out, `timexnorm_unit_worker_messages_total{status="success",topic="timex.documents"} 1`)
	assert.Contains(t, out, `timexnorm_unit_worker_messages_total{status="failure",topic="timex.documents"} 1`)
	assert.Contains(t, out, `timexnorm_unit_worker_dead_letters_total{reason="decode",topic="timex.documents"} 1`)
}

func TestServiceMetrics_CacheHealthErrors(t *testing.T) {
	c := newTestCollector(t)
	m := NewServiceMetrics(c)

	m.RecordCacheOperation("get", nil)
	m.RecordCacheOperation("set", errors.New("timeout"))
	m.SetHealth("redis", true)
	m.SetHealth("kafka", false)
	m.RecordError("annotation", "TMX_001")

	out := scrape(t, c)
	assert.Contains(t, out, `timexnorm_unit_result_cache_operations_total{operation="get",result="ok"} 1`)
	assert.Contains(t, out, `timexnorm_unit_result_cache_operations_total{operation="set",result="error"} 1`)
	assert.Contains(t, out, `timexnorm_unit_health_check_status{component="redis"} 1`)
	assert.Contains(t, out, `timexnorm_unit_health_check_status{component="kafka"} 0`)
	assert.Contains(t, out, `timexnorm_unit_errors_total{component="annotation",error_code="TMX_001"} 1`)
}

func TestServiceMetrics_TrackUptime(t *testing.T) {
	c := newTestCollector(t)
	m := NewServiceMetrics(c)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		m.TrackUptime("apiserver", time.Millisecond, stop)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	close(stop)
	<-done

	assert.Contains(t, scrape(t, c), `timexnorm_unit_service_uptime_seconds{service="apiserver"}`)
}

//Personal.AI order the ending
