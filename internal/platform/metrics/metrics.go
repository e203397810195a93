// Package metrics defines the Prometheus collectors of the Bloom server and
// gateway client. Collectors are registered on an explicit registry so
// tests and multiple instances never collide on the global one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bloom"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	lessonsCompleted prometheus.Counter
	energyConsumed   prometheus.Counter
	gatewayRequests  *prometheus.CounterVec
	gatewayDuration  *prometheus.HistogramVec
}

// New creates collectors on a fresh registry that also exports the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests served",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		lessonsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progress",
			Name:      "lessons_completed_total",
			Help:      "Lessons completed for the first time",
		}),
		energyConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progress",
			Name:      "energy_consumed_total",
			Help:      "Energy units spent by learners",
		}),
		gatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Gateway client requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		gatewayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duration of gateway client requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTP records a served request. route is the router pattern, not
// the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// LessonCompleted counts a first-time lesson completion.
func (m *Metrics) LessonCompleted() {
	if m == nil {
		return
	}
	m.lessonsCompleted.Inc()
}

// EnergyConsumed counts spent energy.
func (m *Metrics) EnergyConsumed(amount int) {
	if m == nil || amount <= 0 {
		return
	}
	m.energyConsumed.Add(float64(amount))
}

// ObserveGatewayRequest records a client call. outcome is "ok" or the
// error class.
func (m *Metrics) ObserveGatewayRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(endpoint, outcome).Inc()
	m.gatewayDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
