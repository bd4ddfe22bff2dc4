package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booking_service"

// Metrics holds the Prometheus collectors exported on /metrics.
// All methods are safe on a nil receiver so callers in tests can omit metrics.
type Metrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorTotal      *prometheus.CounterVec
	bookingsCreated prometheus.Counter
	bookingUpdates  *prometheus.CounterVec
	otpIssued       prometheus.Counter
	otpRejected     *prometheus.CounterVec
	passwordResets  prometheus.Counter
	rateLimited     *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Requests that ended in an error response, by error code.",
		}, []string{"method", "route", "code"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Bookings created.",
		}),
		bookingUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bookings",
			Name:      "status_changes_total",
			Help:      "Booking status changes by target status.",
		}, []string{"status"}),
		otpIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "password_reset",
			Name:      "otp_issued_total",
			Help:      "Password reset codes issued and mailed.",
		}),
		otpRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "password_reset",
			Name:      "otp_rejected_total",
			Help:      "Password reset attempts rejected, by reason.",
		}, []string{"reason"}),
		passwordResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "password_reset",
			Name:      "completed_total",
			Help:      "Passwords changed through the reset flow.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "rejected_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"bucket"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestTotal,
		m.requestDuration,
		m.errorTotal,
		m.bookingsCreated,
		m.bookingUpdates,
		m.otpIssued,
		m.otpRejected,
		m.passwordResets,
		m.rateLimited,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RegisterPoolStats exports connection pool gauges read from stat at scrape time.
func (m *Metrics) RegisterPoolStats(stat func() *pgxpool.Stat) {
	if m == nil || stat == nil {
		return
	}
	gauge := func(name, help string, read func(*pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "postgres_pool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			s := stat()
			if s == nil {
				return 0
			}
			return read(s)
		})
	}
	m.registry.MustRegister(
		gauge("total_conns", "Connections currently in the pool.", func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		gauge("acquired_conns", "Connections currently checked out.", func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("idle_conns", "Idle connections.", func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
		gauge("max_conns", "Configured pool size.", func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
	)
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(method, route, code).Inc()
}

// BookingCreated counts a new booking.
func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

// BookingStatusChanged counts a status transition.
func (m *Metrics) BookingStatusChanged(status string) {
	if m == nil {
		return
	}
	m.bookingUpdates.WithLabelValues(status).Inc()
}

// OTPIssued counts a mailed reset code.
func (m *Metrics) OTPIssued() {
	if m == nil {
		return
	}
	m.otpIssued.Inc()
}

// OTPRejected counts a failed verify or complete attempt.
func (m *Metrics) OTPRejected(reason string) {
	if m == nil {
		return
	}
	m.otpRejected.WithLabelValues(reason).Inc()
}

// PasswordReset counts a completed reset.
func (m *Metrics) PasswordReset() {
	if m == nil {
		return
	}
	m.passwordResets.Inc()
}

// RateLimited counts a throttled request.
func (m *Metrics) RateLimited(bucket string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(bucket).Inc()
}
