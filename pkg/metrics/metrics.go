package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exposed at /metrics
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	bookingsCreated      prometheus.Counter
	bookingConflicts     prometheus.Counter
	bookingsCancelled    prometheus.Counter
	paymentVerifications *prometheus.CounterVec
	notificationsSent    *prometheus.CounterVec
}

// New registers collectors on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fieldbook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "bookings_created_total",
			Help:      "Bookings persisted.",
		}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "booking_slot_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken.",
		}),
		bookingsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled by customers.",
		}),
		paymentVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "payment_verifications_total",
			Help:      "Admin payment decisions.",
		}, []string{"result"}),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldbook",
			Name:      "notifications_total",
			Help:      "Notification deliveries by outcome.",
		}, []string{"type", "outcome"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.bookingsCreated,
		m.bookingConflicts,
		m.bookingsCancelled,
		m.paymentVerifications,
		m.notificationsSent,
	)

	return m
}

// Middleware records request count and latency per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// The recorders below are nil-safe so services can run without metrics in tests.

func (m *Metrics) BookingCreated() {
	if m != nil {
		m.bookingsCreated.Inc()
	}
}

func (m *Metrics) BookingConflict() {
	if m != nil {
		m.bookingConflicts.Inc()
	}
}

func (m *Metrics) BookingCancelled() {
	if m != nil {
		m.bookingsCancelled.Inc()
	}
}

func (m *Metrics) PaymentVerified(approved bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if approved {
		result = "approved"
	}
	m.paymentVerifications.WithLabelValues(result).Inc()
}

func (m *Metrics) NotificationDelivered(notificationType string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.notificationsSent.WithLabelValues(notificationType, outcome).Inc()
}
