package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes server-level Prometheus metrics. Calculation counts and
// durations are recorded by the fibonacci package.
type Metrics struct {
	handler http.Handler
}

var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fibdrv_active_requests",
		Help: "Current number of active requests",
	})
	totalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fibdrv_requests_total",
		Help: "Total number of requests received",
	})
	responsesByCode = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fibdrv_responses_total",
		Help: "Responses sent, by HTTP status code",
	}, []string{"code"})
	deviceBusy = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fibdrv_device_busy_total",
		Help: "Requests refused because the device was held by another session",
	})
)

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		handler: promhttp.Handler(),
	}
}

// IncrementActiveRequests increments the active requests gauge and the
// total requests counter.
func (m *Metrics) IncrementActiveRequests() {
	activeRequests.Inc()
	totalRequests.Inc()
}

// DecrementActiveRequests decrements the active requests gauge.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}

// ObserveResponse counts one response with the given status code.
func (m *Metrics) ObserveResponse(code int) {
	responsesByCode.WithLabelValues(strconv.Itoa(code)).Inc()
}

// IncrementDeviceBusy counts one request refused with 503.
func (m *Metrics) IncrementDeviceBusy() {
	deviceBusy.Inc()
}

// WritePrometheus writes metrics in Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// handleMetrics is the HTTP handler for the /metrics endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// metricsMiddleware tracks active requests and response codes.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := wrapStatus(w)
		next(rec, r)
		s.metrics.ObserveResponse(rec.status)
	}
}
