package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns every collector the service exports.
type Metrics struct {
	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	StatusCategory    *prometheus.CounterVec
	DomainResolutions *prometheus.CounterVec
	OrdersPlaced      *prometheus.CounterVec
	RealtimeEvents    *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		StatusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category"},
		),
		DomainResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storehub_domain_resolutions_total",
				Help: "Custom domain resolutions by outcome",
			},
			[]string{"outcome"},
		),
		OrdersPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storehub_orders_placed_total",
				Help: "Orders accepted by channel",
			},
			[]string{"channel"},
		),
		RealtimeEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storehub_realtime_events_total",
				Help: "Row change notifications received by table",
			},
			[]string{"table"},
		),
	}
	reg.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.StatusCategory,
		m.DomainResolutions,
		m.OrdersPlaced,
		m.RealtimeEvents,
	)
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	statusStr := strconv.Itoa(status)
	m.RequestCounter.WithLabelValues(method, path, statusStr).Inc()
	m.RequestDuration.WithLabelValues(method, path, statusStr).Observe(elapsed.Seconds())

	switch {
	case status >= 200 && status < 300:
		m.StatusCategory.WithLabelValues("2xx").Inc()
	case status >= 400 && status < 500:
		m.StatusCategory.WithLabelValues("4xx").Inc()
	case status >= 500:
		m.StatusCategory.WithLabelValues("5xx").Inc()
	}
}

func (m *Metrics) ResolutionOutcome(outcome string) {
	m.DomainResolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) OrderPlaced(channel string) {
	m.OrdersPlaced.WithLabelValues(channel).Inc()
}

func (m *Metrics) RealtimeEvent(table string) {
	m.RealtimeEvents.WithLabelValues(table).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
