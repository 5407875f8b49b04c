package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the clinic API.
// Методы безопасно вызывать на nil: сервисы в тестах работают без метрик.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	EmailsSent         *prometheus.CounterVec
	ConsentEvents      *prometheus.CounterVec
	BookingsCreated    prometheus.Counter
	ContactsReceived   prometheus.Counter
	AnalyticsFailures  *prometheus.CounterVec
	BackgroundFailures *prometheus.CounterVec
}

// New creates a registry and registers all metrics on it
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "continuum_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "continuum_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "continuum_emails_total",
			Help: "Transactional emails by template and outcome",
		}, []string{"template", "outcome"}),
		ConsentEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "continuum_consent_events_total",
			Help: "Consent ledger records by kind (accept, revoke)",
		}, []string{"kind"}),
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "continuum_bookings_created_total",
			Help: "Total number of appointment requests",
		}),
		ContactsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "continuum_contact_submissions_total",
			Help: "Total number of contact form submissions",
		}),
		AnalyticsFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "continuum_analytics_increment_failures_total",
			Help: "Analytics counter increments that failed",
		}, []string{"dimension"}),
		BackgroundFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "continuum_background_task_failures_total",
			Help: "Fire-and-forget tasks that returned an error",
		}, []string{"task"}),
	}
}

// Handler отдаёт метрики для scrape
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware считает запросы и их длительность по шаблону маршрута
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// Страницы, обработанные NoRoute, не размножают метки по путям
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// EmailResult учитывает отправку письма
func (m *Metrics) EmailResult(template string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.EmailsSent.WithLabelValues(template, outcome).Inc()
}

// IncrementConsentEvent учитывает запись в журнале согласий
func (m *Metrics) IncrementConsentEvent(kind string) {
	if m == nil {
		return
	}
	m.ConsentEvents.WithLabelValues(kind).Inc()
}

// IncrementBookings increments the bookings counter by 1
func (m *Metrics) IncrementBookings() {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
}

// IncrementContacts increments the contact submissions counter by 1
func (m *Metrics) IncrementContacts() {
	if m == nil {
		return
	}
	m.ContactsReceived.Inc()
}

// IncrementAnalyticsFailure учитывает потерянный инкремент счётчика
func (m *Metrics) IncrementAnalyticsFailure(dimension string) {
	if m == nil {
		return
	}
	m.AnalyticsFailures.WithLabelValues(dimension).Inc()
}

// IncrementBackgroundFailure учитывает ошибку фоновой задачи
func (m *Metrics) IncrementBackgroundFailure(task string) {
	if m == nil {
		return
	}
	m.BackgroundFailures.WithLabelValues(task).Inc()
}
