package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("GET", "GET /api/v1/resolve", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "GET /api/v1/resolve", 404, time.Millisecond)
	m.ObserveRequest("POST", "POST /api/v1/orders/{channel}", 500, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "GET /api/v1/resolve", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusCategory.WithLabelValues("2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusCategory.WithLabelValues("4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusCategory.WithLabelValues("5xx")))
}

func TestDomainCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ResolutionOutcome("tenant")
	m.ResolutionOutcome("tenant")
	m.OrderPlaced("wholesale")
	m.RealtimeEvent("categories")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DomainResolutions.WithLabelValues("tenant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersPlaced.WithLabelValues("wholesale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RealtimeEvents.WithLabelValues("categories")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.OrderPlaced("retail")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `storehub_orders_placed_total{channel="retail"} 1`)
}
