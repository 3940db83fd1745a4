package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/fields/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fields/abc", nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/fields/:id", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fieldbook_http_requests_total")
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.BookingCreated()
	m.BookingConflict()
	m.PaymentVerified(true)
	m.PaymentVerified(false)
	m.PaymentVerified(false)
	m.NotificationDelivered("BOOKING_APPROVED", errors.New("smtp"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingConflicts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.paymentVerifications.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsSent.WithLabelValues("BOOKING_APPROVED", "failed")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingCreated()
		m.PaymentVerified(true)
		m.NotificationDelivered("x", nil)
	})
}
