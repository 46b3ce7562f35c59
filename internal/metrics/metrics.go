// Package metrics exposes Prometheus counters for bookings and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/javiermolinar/turno/internal/appointment"
)

// Result labels for booking operations.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// BookingMetrics records booking outcomes. It implements appointment.Observer.
type BookingMetrics struct {
	operations   *prometheus.CounterVec
	reservations prometheus.Gauge
}

// NewBookingMetrics registers the booking collectors on reg, or on the
// default registerer when reg is nil.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "turno",
			Subsystem: "booking",
			Name:      "operations_total",
			Help:      "Booking operations by outcome",
		}, []string{"operation", "result"}),
		reservations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "turno",
			Subsystem: "booking",
			Name:      "reservations",
			Help:      "Reservations currently held",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operations, m.reservations)
	return m
}

func (m *BookingMetrics) ObserveOperation(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, resultLabel(err)).Inc()
}

func (m *BookingMetrics) SetReservations(n int) {
	if m == nil {
		return
	}
	m.reservations.Set(float64(n))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case appointment.IsRejection(err):
		return ResultRejected
	default:
		return ResultError
	}
}

// HTTPMetrics records request counts and latency per route pattern.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "turno",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "turno",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP request handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.latency.WithLabelValues(method, route).Observe(seconds)
}

var _ appointment.Observer = (*BookingMetrics)(nil)
