package metricsvc

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simtahfidz/backend/core"
)

const namespace = "simtahfidz"

// PrometheusMetrics owns its registry so that several instances (one per test server) can coexist.
type PrometheusMetrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	setoranCreated *prometheus.CounterVec
	setoranDeleted prometheus.Counter
}

var _ core.Metrics = (*PrometheusMetrics)(nil) // interface compliance check

func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "path", "code"}),
		setoranCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "setoran_created_total",
			Help:      "Recorded setoran by type and color status.",
		}, []string{"type", "color"}),
		setoranDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "setoran_deleted_total",
			Help:      "Deleted setoran.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.setoranCreated,
		m.setoranDeleted,
	)
	return m
}

func (m *PrometheusMetrics) ObserveRequest(method, path string, code int) {
	m.requests.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
}

func (m *PrometheusMetrics) SetoranCreated(recordType, colorStatus string) {
	m.setoranCreated.WithLabelValues(recordType, colorStatus).Inc()
}

func (m *PrometheusMetrics) SetoranDeleted() {
	m.setoranDeleted.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
