package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/javiermolinar/turno/internal/appointment"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveOperation(appointment.OpBook, nil)
	m.ObserveOperation(appointment.OpBook, fmt.Errorf("%w: Dr. Smith", appointment.ErrDoctorSlotTaken))
	m.ObserveOperation(appointment.OpCancel, errors.New("disk on fire"))
	m.SetReservations(3)

	tests := []struct {
		op, result string
		want       float64
	}{
		{appointment.OpBook, ResultOK, 1},
		{appointment.OpBook, ResultRejected, 1},
		{appointment.OpCancel, ResultError, 1},
		{appointment.OpCancel, ResultOK, 0},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.operations.WithLabelValues(tt.op, tt.result))
		if got != tt.want {
			t.Errorf("operations{%s,%s} = %v, want %v", tt.op, tt.result, got, tt.want)
		}
	}

	if got := testutil.ToFloat64(m.reservations); got != 3 {
		t.Errorf("reservations = %v, want 3", got)
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("POST", "/bookAppointment", "201", 0.01)
	m.ObserveRequest("POST", "/bookAppointment", "201", 0.02)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/bookAppointment", "201")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(m.latency); n != 1 {
		t.Errorf("latency series = %d, want 1", n)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var b *BookingMetrics
	b.ObserveOperation(appointment.OpBook, nil)
	b.SetReservations(1)

	var h *HTTPMetrics
	h.ObserveRequest("GET", "/health", "200", 0.1)
}
