// Package metrics exposes Prometheus collectors for the HTTP layer and the
// admin operations, served from GET /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "strataevents"

// Registry holds every collector this service exports.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "route"})

	HTTPRequestsInFlight = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served.",
	})

	// AuditEvents counts audit events as they are raised, whatever the
	// configured destination.
	AuditEvents = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Audit events by category, type and outcome.",
	}, []string{"category", "event_type", "success"})

	RegistrationCountBatch = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "registration_count_batch_seconds",
		Help:      "Time to count registrations for every event in a listing.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"outcome"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// unmatchedRoute labels requests no route claimed, so unknown paths
// cannot grow label cardinality.
const unmatchedRoute = "unmatched"

// HTTPMiddleware records request metrics labelled by chi route pattern
// (e.g. /api/admin/events/{id}), never by raw path.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := unmatchedRoute
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveCountBatch records how long a registration count fan-out took.
func ObserveCountBatch(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	RegistrationCountBatch.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// RecordAudit counts one audit event.
func RecordAudit(category, eventType string, success bool) {
	AuditEvents.WithLabelValues(category, eventType, strconv.FormatBool(success)).Inc()
}
