package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.EmailResult("welcome", nil)
		m.IncrementBookings()
		m.IncrementContacts()
		m.IncrementConsentEvent("accept")
		m.IncrementAnalyticsFailure("pageviews")
		m.IncrementBackgroundFailure("email")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.EmailResult("booking_confirmation", nil)
	m.EmailResult("booking_confirmation", errors.New("boom"))
	m.IncrementBookings()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailsSent.WithLabelValues("booking_confirmation", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailsSent.WithLabelValues("booking_confirmation", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsCreated))

	// Повторное создание не паникует: у каждого экземпляра свой registry
	assert.NotPanics(t, func() { New() })
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/ping", "204")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "continuum_http_requests_total")
}
