package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contact_api"

// PrometheusRecorder exports metrics through a private registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	usersRegistered  prometheus.Counter
	logins           *prometheus.CounterVec
	authFailures     *prometheus.CounterVec
	sessionCache     *prometheus.CounterVec
	entityOperations *prometheus.CounterVec
	searchDuration   prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	rateLimited      *prometheus.CounterVec
}

// NewPrometheus creates a recorder with its own registry, including the Go
// runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	p := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "registered_total",
			Help:      "Total number of registered users.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"status"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Requests rejected by the auth middleware.",
		}, []string{"reason"}),
		sessionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "session_cache_total",
			Help:      "Session cache lookups by result.",
		}, []string{"result"}),
		entityOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contacts",
			Name:      "operations_total",
			Help:      "Successful contact and address mutations.",
		}, []string{"entity", "op"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "contacts",
			Name:      "search_duration_seconds",
			Help:      "Duration of contact searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"scope"}),
	}

	p.registry.MustRegister(
		p.usersRegistered,
		p.logins,
		p.authFailures,
		p.sessionCache,
		p.entityOperations,
		p.searchDuration,
		p.httpRequests,
		p.httpDuration,
		p.rateLimited,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return p
}

// Handler exposes the registry in the Prometheus text format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the private registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncUserRegistered() { p.usersRegistered.Inc() }

func (p *PrometheusRecorder) IncLogin(status string) { p.logins.WithLabelValues(status).Inc() }

func (p *PrometheusRecorder) IncAuthFailure(reason string) {
	p.authFailures.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) IncSessionCache(result string) {
	p.sessionCache.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) IncEntityOperation(entity, op string) {
	p.entityOperations.WithLabelValues(entity, op).Inc()
}

func (p *PrometheusRecorder) ObserveSearchDuration(d time.Duration) {
	p.searchDuration.Observe(d.Seconds())
}

// ObserveHTTPRequest records one request. route is the matched pattern,
// never the raw path, to keep label cardinality bounded.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRateLimited(scope string) {
	p.rateLimited.WithLabelValues(scope).Inc()
}
