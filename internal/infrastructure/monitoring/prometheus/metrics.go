package prometheus

import (
	"strconv"
	"time"
)

// ServiceMetrics holds the transport-level metric families shared by the
// apiserver and worker binaries.
type ServiceMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Kafka worker
	MessagesTotal          CounterVec
	MessageProcessDuration HistogramVec
	DeadLettersTotal       CounterVec

	// Result cache
	CacheOperationsTotal CounterVec

	// System health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets    = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}
	DefaultMessageDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10}
)

// NewServiceMetrics registers every family with collector.
func NewServiceMetrics(collector MetricsCollector) *ServiceMetrics {
	m := &ServiceMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.MessagesTotal = collector.RegisterCounter("worker_messages_total", "Kafka messages consumed", "topic", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("worker_message_duration_seconds", "Kafka message processing duration", DefaultMessageDurationBuckets, "topic")
	m.DeadLettersTotal = collector.RegisterCounter("worker_dead_letters_total", "Messages routed to the dead-letter topic", "topic", "reason")

	m.CacheOperationsTotal = collector.RegisterCounter("result_cache_operations_total", "Result cache operations", "operation", "result")

	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

// RecordHTTPRequest records one completed request.  route is the chi route
// pattern, never the raw path.
func (m *ServiceMetrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordMessage records one consumed Kafka message.
func (m *ServiceMetrics) RecordMessage(topic string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.MessagesTotal.WithLabelValues(topic, status).Inc()
	m.MessageProcessDuration.WithLabelValues(topic).Observe(duration.Seconds())
}

// RecordDeadLetter records a message parked on the dead-letter topic.
func (m *ServiceMetrics) RecordDeadLetter(topic, reason string) {
	m.DeadLettersTotal.WithLabelValues(topic, reason).Inc()
}

// RecordCacheOperation records a get or set against the result cache.
func (m *ServiceMetrics) RecordCacheOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// SetHealth publishes the probe state of a dependency.
func (m *ServiceMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// RecordError counts a failure by component and TMX error code.
func (m *ServiceMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

// TrackUptime refreshes the uptime gauge of service until stop is closed.
func (m *ServiceMetrics) TrackUptime(service string, interval time.Duration, stop <-chan struct{}) {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		m.ServiceUptime.WithLabelValues(service).Set(time.Since(start).Seconds())
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

//Personal.AI order the ending
